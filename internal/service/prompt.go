package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prepmind-dev/prepmind-api/internal/models"
)

// Prompt builders compose the full instruction text sent to the AI gateway,
// including the requested output schema. The gateway itself never inspects
// prompts.

func buildQuestionPrompt(cfg models.InterviewConfig) string {
	count := cfg.QuestionCount()

	builder := strings.Builder{}
	fmt.Fprintf(&builder, "You are an expert technical interviewer. Generate %d interview questions based on the following configuration:\n\n", count)
	fmt.Fprintf(&builder, "Domain: %s\n", cfg.Domain)
	fmt.Fprintf(&builder, "Difficulty: %s\n", cfg.Difficulty)
	fmt.Fprintf(&builder, "Topics: %s\n", strings.Join(cfg.Topics, ", "))
	fmt.Fprintf(&builder, "Format: %s\n\n", cfg.Format)

	if cfg.Format == models.FormatVerbal {
		builder.WriteString("For verbal/conceptual questions:\n")
		builder.WriteString("- Focus on theoretical understanding, problem-solving approach, and conceptual knowledge\n")
		builder.WriteString("- Include scenario-based and experience-based questions\n")
		builder.WriteString("- Questions should assess deep understanding\n")
	} else {
		builder.WriteString("For coding questions:\n")
		builder.WriteString("- Provide clear problem statements with examples\n")
		builder.WriteString("- Include at least 2 test cases for each problem (1 visible, 1+ hidden)\n")
		builder.WriteString("- Add constraints and edge cases\n")
		builder.WriteString("- Problems should be practical and test coding skills\n")
	}

	builder.WriteString("\nReturn ONLY a valid JSON array of questions in this exact format:\n")
	builder.WriteString("[\n  {\n")
	builder.WriteString("    \"id\": \"unique-id\",\n")
	builder.WriteString("    \"question\": \"the question text\",\n")
	fmt.Fprintf(&builder, "    \"type\": %q,\n", cfg.Format)
	fmt.Fprintf(&builder, "    \"difficulty\": %q,\n", cfg.Difficulty)
	builder.WriteString("    \"topic\": \"specific topic from the list\",\n")
	if cfg.Format == models.FormatCoding {
		builder.WriteString("    \"testCases\": [\n")
		builder.WriteString("      {\"input\": \"test input\", \"expectedOutput\": \"expected output\", \"isHidden\": false},\n")
		builder.WriteString("      {\"input\": \"test input 2\", \"expectedOutput\": \"expected output 2\", \"isHidden\": true}\n")
		builder.WriteString("    ],\n")
		builder.WriteString("    \"constraints\": [\"constraint 1\", \"constraint 2\"]\n")
	} else {
		builder.WriteString("    \"expectedAnswer\": \"brief expected answer outline\"\n")
	}
	builder.WriteString("  }\n]")

	return builder.String()
}

func buildEvaluationPrompt(question models.Question, answer models.Answer) string {
	builder := strings.Builder{}
	builder.WriteString("You are an expert technical interviewer evaluating a candidate's answer.\n\n")
	fmt.Fprintf(&builder, "Question: %s\n", question.Question)
	fmt.Fprintf(&builder, "Topic: %s\n", question.Topic)
	fmt.Fprintf(&builder, "Difficulty: %s\n", question.Difficulty)
	fmt.Fprintf(&builder, "Type: %s\n\n", question.Type)

	if question.Type == models.FormatVerbal {
		fmt.Fprintf(&builder, "Candidate's Answer: %s\n", answer.Answer)
	} else {
		fmt.Fprintf(&builder, "Candidate's Code:\n%s\n", answer.Code)
	}

	if question.ExpectedAnswer != "" {
		fmt.Fprintf(&builder, "\nExpected Answer Outline: %s\n", question.ExpectedAnswer)
	}

	builder.WriteString("\nEvaluate the response and provide:\n")
	builder.WriteString("1. A score out of 100\n")
	builder.WriteString("2. Detailed feedback (2-3 sentences)\n")
	builder.WriteString("3. 2-3 specific strengths\n")
	builder.WriteString("4. 2-3 specific weaknesses or areas for improvement\n")
	builder.WriteString("5. 2-3 actionable suggestions\n\n")

	if question.Type == models.FormatCoding {
		builder.WriteString("For code: Evaluate correctness, efficiency, readability, and best practices.\n")
	} else {
		builder.WriteString("For verbal: Evaluate clarity, depth of understanding, communication, and completeness.\n")
	}

	builder.WriteString("\nReturn ONLY a valid JSON object in this exact format:\n")
	builder.WriteString(`{
  "score": 85,
  "feedback": "detailed feedback text",
  "strengths": ["strength 1", "strength 2"],
  "weaknesses": ["weakness 1", "weakness 2"],
  "suggestions": ["suggestion 1", "suggestion 2"]
}`)

	return builder.String()
}

type questionAnswerDigest struct {
	Question string  `json:"question"`
	Topic    string  `json:"topic"`
	Answer   string  `json:"answer"`
	Code     string  `json:"code,omitempty"`
	Score    float64 `json:"score"`
}

func buildOverallPrompt(questions []models.Question, answers []models.Answer) (string, error) {
	byID := make(map[string]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	digest := make([]questionAnswerDigest, 0, len(answers))
	for _, answer := range answers {
		question := byID[answer.QuestionID]
		entry := questionAnswerDigest{
			Question: question.Question,
			Topic:    question.Topic,
			Answer:   answer.Answer,
			Code:     answer.Code,
		}
		if answer.Evaluation != nil {
			entry.Score = answer.Evaluation.Score
		}
		digest = append(digest, entry)
	}

	data, err := json.MarshalIndent(digest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal interview digest: %w", err)
	}

	builder := strings.Builder{}
	builder.WriteString("You are an expert technical interviewer providing final interview feedback.\n\n")
	builder.WriteString("Interview Data:\n")
	builder.Write(data)
	builder.WriteString("\n\nProvide a comprehensive overall evaluation including:\n")
	builder.WriteString("1. Overall score (weighted average, out of 100)\n")
	builder.WriteString("2. Topic-wise scores (for each unique topic)\n")
	builder.WriteString("3. 3-5 key strengths across all answers\n")
	builder.WriteString("4. 3-5 key weaknesses or areas for improvement\n")
	builder.WriteString("5. 5-7 specific, actionable recommendations for skill development\n")
	builder.WriteString("6. A detailed performance summary (3-4 sentences)\n\n")
	builder.WriteString("Return ONLY a valid JSON object in this exact format:\n")
	builder.WriteString(`{
  "overallScore": 85,
  "topicWiseScores": {
    "Topic Name": 90,
    "Another Topic": 80
  },
  "strengths": ["strength 1", "strength 2", "strength 3"],
  "weaknesses": ["weakness 1", "weakness 2", "weakness 3"],
  "recommendations": ["rec 1", "rec 2", "rec 3", "rec 4", "rec 5"],
  "performanceSummary": "detailed summary text"
}`)

	return builder.String(), nil
}

func buildChatPrompt(message string) string {
	builder := strings.Builder{}
	builder.WriteString("You are PrepMind, an intelligent AI assistant specializing in interview preparation and career guidance.\n\n")
	fmt.Fprintf(&builder, "User Query: %s\n\n", message)
	builder.WriteString("Instructions:\n")
	builder.WriteString("- Provide helpful, detailed, and professional responses\n")
	builder.WriteString("- If asked about interview preparation, offer specific advice, tips, examples, and best practices\n")
	builder.WriteString("- If asked about technical topics, provide clear explanations with examples\n")
	builder.WriteString("- Be conversational, supportive, and encouraging\n")
	builder.WriteString("- Format your response clearly with proper paragraphs and bullet points where appropriate\n")
	builder.WriteString("- Keep responses concise but comprehensive (aim for 200-400 words unless more detail is needed)\n\n")
	builder.WriteString("Respond to the user's query now:")

	return builder.String()
}
