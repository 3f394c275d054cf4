package llm

import "fmt"

const systemPrompt = "You are an expert communication and productivity coach. " +
	"You analyze transcripts from calls, lectures, meetings, and videos. " +
	"You MUST reply with valid JSON only, with keys:\n" +
	"  - smart_summary: string\n" +
	"  - key_points: list of strings\n" +
	"  - smart_improvements: list of strings\n"

const userPromptTemplate = `Here is the transcript:

%s

Tasks:
1) smart_summary: A clear, concise summary of what happened.
2) key_points: 3–8 bullet-style key points capturing the most important ideas.
3) smart_improvements: 3–8 practical suggestions to improve clarity, structure, or delivery.
Return ONLY JSON, no extra text.`

func buildUserPrompt(transcript, language string) string {
	prompt := fmt.Sprintf(userPromptTemplate, transcript)
	if language != "" {
		prompt += fmt.Sprintf("\nWrite every field in %s.", language)
	}
	return prompt
}
