package minutes

import (
	"fmt"
	"time"
)

// BuildSystemPrompt generates the system prompt for minutes extraction.
func BuildSystemPrompt() string {
	prompt := "You are a meeting-minutes assistant. You receive the raw transcript of a meeting and produce structured minutes.\n\n"
	prompt += "Rules:\n"
	prompt += "- Use only information present in the transcript\n"
	prompt += "- Keep the same language as the transcript\n"
	prompt += "- Attendees are the names mentioned as participating; leave the list empty if none are named\n"
	prompt += "- Decisions are explicit agreements or outcomes, not open discussion\n"
	prompt += "- Action items need an assignee and a task; include a due date only when one was stated\n"
	prompt += "- Summaries are short and factual\n"
	return prompt
}

// BuildUserPrompt wraps the transcript with the meeting date.
func BuildUserPrompt(transcriptText string, now time.Time) string {
	return fmt.Sprintf("Meeting date: %s\n\nTranscript:\n%s",
		now.Format("2006-01-02"), transcriptText)
}
