package services

import (
	"fmt"
	"strings"

	"github.com/prepmate/prepmate/internal/models"
)

const (
	// closingPhrase marks an AI turn as the closing statement; AI turns
	// containing it are excluded from the asked-question count.
	closingPhrase = "This concludes our interview"

	closingText = "Thank you. This concludes our interview. I will now provide feedback."

	fallbackOpening  = "Welcome! Let's begin."
	fallbackQuestion = "Could not generate AI response."

	defaultFirstQuestion = "Can you introduce yourself briefly?"

	// recentWindow bounds the conversational context embedded in question
	// prompts, regardless of total transcript length.
	recentWindow = 10

	maxQuestionTokens   = 350
	maxEvaluationTokens = 600
)

func openingPrompt(jobRole, skills, experience, resumeText string) string {
	resumeContext := ""
	if resumeText != "" {
		resumeContext = fmt.Sprintf("\n---\nCANDIDATE'S RESUME:\n%s\n---\n", resumeText)
	}

	return fmt.Sprintf(`You are an AI interviewer for a %s role.
The candidate has skills in %s and %s of experience.
%s
Based on all this information (especially the resume if provided), start the interview by asking the first relevant technical question.
Ask ONE question only. Do not ask "Are you ready?" or "Tell me about yourself". Just ask the first technical question.`,
		jobRole, skills, experience, resumeContext)
}

func resumeQuestionPrompt(resumeText, recentConversation string) string {
	return fmt.Sprintf(`You are an AI technical interviewer. Your SOLE task is to ask ONE question based on the candidate's resume provided below.
The question can be about a specific project, a skill listed, or a past work experience.

CANDIDATE'S RESUME:
%s

Recent conversation:
%s

Instructions:
1. Pick ONE relevant item from the resume (project, skill, or experience).
2. Ask a specific, open-ended question about it.
3. DO NOT ask a generic technical or coding question. The question MUST be about the resume.
4. CRITICAL: DO NOT ask about a topic, project, or skill that is already mentioned in the recent conversation. Pick a NEW topic from the resume.
5. Keep the question direct and concise.`,
		resumeText, recentConversation)
}

func technicalQuestionPrompt(jobRole, resumeText, recentConversation string, coding bool) string {
	resumeContext := ""
	if resumeText != "" {
		resumeContext = fmt.Sprintf("\n---\nCANDIDATE'S RESUME (for context):\n%s\n---\n", resumeText)
	}

	category := "GENERAL TECHNICAL"
	if coding {
		category = "CODING"
	}

	return fmt.Sprintf(`You are an AI technical interviewer for the role of %s.
You must ensure the tone is professional, concise, and context-aware.
%s
Recent conversation:
%s

Instructions:
1. Briefly acknowledge the candidate's previous answer (1-2 lines).
2. Ask the next %s question.
3. Question Focus: %s.
4. CRITICAL: This is a technical or coding question. DO NOT ask a question about the candidate's resume (projects, past experience, etc.).
5. Keep it a clear, single, direct question. Avoid HR-style questions.`,
		jobRole, resumeContext, recentConversation, category, questionFocus(jobRole, coding))
}

// questionFocus derives the topic focus from the role string by
// case-insensitive substring match, with a generic fallback.
func questionFocus(jobRole string, coding bool) string {
	role := strings.ToLower(jobRole)

	if coding {
		switch {
		case strings.Contains(role, "frontend"):
			return "JavaScript or React coding tasks involving arrays, event handling, or component logic"
		case strings.Contains(role, "backend"):
			return "coding problems on data structures, asynchronous programming, or API logic"
		default:
			return "general coding problems involving loops, arrays, or string algorithms"
		}
	}

	switch {
	case strings.Contains(role, "frontend"):
		return "HTML, CSS, JavaScript, React.js, rendering lifecycle, optimization, and UI logic"
	case strings.Contains(role, "backend"):
		return "server runtimes, databases (SQL/NoSQL), authentication, APIs, and scalability"
	default:
		return "core CS topics like OS, DBMS, networking, and OOP principles"
	}
}

func evaluationPrompt(jobRole, transcript string) string {
	return fmt.Sprintf(`You are a senior technical interviewer. Analyze the following interview transcript for a %s position.

INTERVIEW TRANSCRIPT:
%s

---
TASK:
Provide a detailed evaluation of the candidate's performance based only on their answers in the transcript.

1. Technical Score (0-10): Rate their technical accuracy and depth.
2. Communication Score (0-10): Rate their clarity and ability to explain concepts.
3. Problem-Solving Score (0-10): Rate their analytical skills and approach to problems.
4. Strengths: Provide a single-line string of key strengths, separated by commas.
5. Areas for Improvement: Provide a single-line string of weaknesses, separated by commas.
6. Overall Feedback: Write a concise 2-3 sentence summary of their performance.

Return only valid JSON in this exact format:
{
  "technicalScore": number,
  "communicationScore": number,
  "problemSolvingScore": number,
  "overallFeedback": "string",
  "strengths": "string",
  "areasForImprovement": "string"
}`,
		jobRole, transcript)
}

// recentContext renders the last recentWindow turns as "speaker: text"
// lines, oldest first.
func recentContext(turns []models.Turn) string {
	if len(turns) > recentWindow {
		turns = turns[len(turns)-recentWindow:]
	}
	return flattenTurns(turns)
}

func flattenTurns(turns []models.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", t.Speaker, t.Text))
	}
	return strings.Join(lines, "\n")
}
