package agent

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/HendryAvila/byebyeanxiety/internal/bundle"
)

// MessageType selects the hint prefixed to an Anxiety Killer message.
type MessageType string

const (
	MessageFree        MessageType = "free"
	MessageChat        MessageType = "chat"
	MessageInspiration MessageType = "inspiration"
	MessageTask        MessageType = "task"
)

// ParseMessageType maps a user-supplied name to a MessageType. Empty and
// unknown names are free.
func ParseMessageType(s string) MessageType {
	switch t := MessageType(strings.ToLower(strings.TrimSpace(s))); t {
	case MessageChat, MessageInspiration, MessageTask:
		return t
	}
	return MessageFree
}

// Hint returns the prefix that tells the persona what the user intends.
func Hint(t MessageType) string {
	switch t {
	case MessageChat:
		return "[DIARY_ENTRY] "
	case MessageInspiration:
		return "[SAVE_IDEA] "
	case MessageTask:
		return "[CREATE_TASK] "
	}
	return ""
}

// ─── Anxiety Killer ──────────────────────────────────────────────────────────

const anxietyKillerSystem = `You are Anxiety Killer, a compassionate AI assistant designed to help individuals with ADHD manage their daily lives and reduce anxiety.

Core Principles:
- Always be patient, supportive, and encouraging
- Celebrate every small achievement, no matter how minor
- Never judge or criticize the user
- Break down complex tasks into manageable steps
- Provide emotional validation and support
- Help users feel safe and understood
- Remember that ADHD is not a character flaw but a different way of thinking

What You Can Offer:
1. Creating tasks: today_must (urgent), future_date (scheduled), long_term (habits/goals), someday_maybe (ideas/wishes)
   - Always ask "When do you need this done?" to choose the right category
2. Todo lists for organizing related tasks into projects
3. Breaking down tasks when the user feels overwhelmed
4. Diary entries for daily experiences, achievements, or reflections
5. The social book: details about people, birthdays, preferences, events and notes
   - New details are added to what is already known, except birthdays and names which are replaced
6. Reminders for important dates like birthdays or events

Message Hints:
- [DIARY_ENTRY] means the user wants this recorded in the diary
- [SAVE_IDEA] means the user wants to keep this idea
- [CREATE_TASK] means the user wants this turned into a task

Proactive Assistance:
- When users mention tasks, offer to create them with appropriate scheduling
- When users feel overwhelmed, suggest breaking tasks into smaller steps
- When users mention projects, propose creating organized todo lists
- When users share experiences, offer to record them in the diary
- When users mention people or dates, suggest adding them to the social book

Communication Style:
- Keep responses concise but warm
- Use encouraging language and emojis
- Ask clarifying questions to provide better help
- Always offer practical, actionable solutions

Remember: The user is doing their best, and every step forward deserves recognition. Your goal is to make their life more organized and less anxious.`

// AnxietyKillerSystem returns the persona's system prompt with the user's
// preferences appended when set.
func AnxietyKillerSystem(preferences string) string {
	if strings.TrimSpace(preferences) == "" {
		return anxietyKillerSystem
	}
	return anxietyKillerSystem + "\n\nUser Preferences:\n" + preferences
}

// AnxietyKiller is the supportive day-to-day persona.
type AnxietyKiller struct {
	llm    LLM
	system string
	log    *zap.Logger
}

// NewAnxietyKiller creates the persona.
func NewAnxietyKiller(llm LLM, preferences string, log *zap.Logger) *AnxietyKiller {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnxietyKiller{llm: llm, system: AnxietyKillerSystem(preferences), log: log}
}

// Prompt builds the text sent for a user message: hint, message, then the
// rendered context bundle when there is one.
func Prompt(message string, t MessageType, b *bundle.Bundle) string {
	p := Hint(t) + message
	if b != nil {
		p += b.Format()
	}
	return p
}

// Send sends an already-built prompt and returns the reply.
func (a *AnxietyKiller) Send(ctx context.Context, prompt string) (string, error) {
	reply, err := a.llm.Generate(ctx, Request{System: a.system, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("agent: anxiety killer: %w", err)
	}
	return reply, nil
}

const summaryPrompt = `Please create a warm, encouraging daily summary for the user.

%s

Create a summary that:
1. Acknowledges what was accomplished (celebrate even small wins!)
2. Reflects on the day's activities and interactions
3. Provides gentle encouragement for tomorrow
4. Keeps a positive, supportive tone
5. Focuses on tasks completed, chat interactions, and activities - NOT on any user-written diary content

Keep it concise but heartfelt (under 150 words).`

// DailySummary turns a day digest (see bundle.Digest) into a summary.
func (a *AnxietyKiller) DailySummary(ctx context.Context, digest string) (string, error) {
	return a.Send(ctx, fmt.Sprintf(summaryPrompt, digest))
}

const breakdownPrompt = `Help break down this task into smaller, manageable steps:

Task: %s
Description: %s

Provide 3-5 concrete, actionable subtasks. Each subtask should:
- Be small enough to complete in one sitting
- Be clearly defined
- Build toward completing the main task

Format your response as a simple numbered list.`

// SuggestBreakdown asks for 3-5 subtasks of a task.
func (a *AnxietyKiller) SuggestBreakdown(ctx context.Context, title, description string) ([]string, error) {
	reply, err := a.Send(ctx, fmt.Sprintf(breakdownPrompt, title, description))
	if err != nil {
		return nil, err
	}
	return ParseNumberedList(reply), nil
}

// ParseNumberedList keeps the lines of s that start with a digit, with the
// numbering stripped.
func ParseNumberedList(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !unicode.IsDigit([]rune(line)[0]) {
			continue
		}
		item := strings.TrimSpace(strings.Trim(line, "0123456789. "))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// ─── Proactive messages ──────────────────────────────────────────────────────

const praisePrompt = `The user just completed a task: "%s"

Please generate a brief, warm, and personalized praise message (under 50 words) celebrating this achievement.
Be specific about the task and make it feel genuine and encouraging.
Use emojis if appropriate, but keep it natural and heartfelt.`

const encouragePrompt = `The user uncompleted a task: "%s"

This is not a failure - they might need to adjust priorities, or the task needs more work.
Please generate a brief, supportive, and encouraging message (under 50 words) that:
- Acknowledges it's okay to uncomplete tasks
- Offers gentle encouragement
- Doesn't judge or criticize
- Is warm and understanding

Use emojis if appropriate, but keep it natural and supportive.`

const listPraisePrompt = `The user just completed an entire todo list: "%s"

Completed tasks: %s
Total tasks completed: %d

Please generate a brief, enthusiastic, and personalized celebration message (under 60 words) that:
- Celebrates this major achievement
- Acknowledges the effort and dedication
- Is warm, encouraging, and genuine
- Makes the user feel proud of their accomplishment

Use emojis if appropriate, but keep it natural and heartfelt.`

// Celebrate praises a completed task. It never fails: model errors fall
// back to a fixed message.
func (a *AnxietyKiller) Celebrate(ctx context.Context, title string) string {
	return a.proactive(ctx, fmt.Sprintf(praisePrompt, title),
		fmt.Sprintf("🎉 Great job completing '%s'! Every step forward counts!", title))
}

// Encourage responds to a task being marked incomplete again.
func (a *AnxietyKiller) Encourage(ctx context.Context, title string) string {
	return a.proactive(ctx, fmt.Sprintf(encouragePrompt, title),
		fmt.Sprintf("💪 That's okay! You can always come back to '%s' when you're ready. Take your time!", title))
}

// CelebrateList praises a todo list whose tasks are all complete.
func (a *AnxietyKiller) CelebrateList(ctx context.Context, name string, titles []string) string {
	shown := titles
	if len(shown) > 5 {
		shown = shown[:5]
	}
	summary := strings.Join(shown, ", ")
	if len(titles) > 5 {
		summary += fmt.Sprintf(", and %d more", len(titles)-5)
	}
	return a.proactive(ctx, fmt.Sprintf(listPraisePrompt, name, summary, len(titles)),
		fmt.Sprintf("🎊🎉 Amazing! You've completed the entire '%s' list! You're absolutely crushing it! 🌟", name))
}

func (a *AnxietyKiller) proactive(ctx context.Context, prompt, fallback string) string {
	reply, err := a.Send(ctx, prompt)
	if err != nil {
		a.log.Warn("agent: proactive message failed, using fallback", zap.Error(err))
		return fallback
	}
	return reply
}

// ─── Ask Me ──────────────────────────────────────────────────────────────────

const askMeSystem = `You are Ask Me, a specialized learning assistant designed to help individuals with ADHD understand complex topics.

Core Teaching Principles:
- Start with the ANSWER FIRST, then explain the details
- Break complex topics into small, digestible chunks
- Use clear, simple language without being condescending
- Provide concrete examples and analogies
- Keep paragraphs short (2-3 sentences max)
- Use bullet points and numbered lists frequently
- Explain the "why" behind concepts, not just the "what"
- Be patient with repeated questions
- Encourage curiosity and exploration

Response Structure:
1. Quick Answer (1-2 sentences): Give the core answer immediately
2. Essential Explanation (3-5 short paragraphs): Break down the key concepts
3. Deeper Details (optional): Only if the user wants to go deeper

Communication Style:
- Direct and clear
- Enthusiastic about learning
- Non-judgmental
- Encouraging of questions
- Comfortable with tangents and follow-ups

Remember:
- ADHD learners often need to understand WHY something works to grasp HOW it works
- Breaking things down is not "dumbing down" - it's making knowledge accessible
- Every question is valid and worth answering
- Jumping between topics is natural - embrace it`

// AskMeSystem returns the learning persona's system prompt with custom
// instructions appended when set.
func AskMeSystem(instructions string) string {
	if strings.TrimSpace(instructions) == "" {
		return askMeSystem
	}
	return askMeSystem + "\n\nCustom Instructions:\n" + instructions
}

// AskMe is the learning persona.
type AskMe struct {
	llm    LLM
	system string
}

// NewAskMe creates the persona.
func NewAskMe(llm LLM, instructions string) *AskMe {
	return &AskMe{llm: llm, system: AskMeSystem(instructions)}
}

// Ask answers a question in the context of earlier turns.
func (a *AskMe) Ask(ctx context.Context, question string, history []Turn) (string, error) {
	reply, err := a.llm.Generate(ctx, Request{System: a.system, History: history, Prompt: question})
	if err != nil {
		return "", fmt.Errorf("agent: ask me: %w", err)
	}
	return reply, nil
}

// Explain asks for an ADHD-friendly explanation of a topic.
func (a *AskMe) Explain(ctx context.Context, topic string) (string, error) {
	return a.Ask(ctx, fmt.Sprintf(`Explain this topic in an ADHD-friendly way: %s

Remember to:
1. Start with a quick, clear answer
2. Break it into small chunks
3. Explain WHY it matters
4. Use examples
5. Keep it engaging`, topic), nil)
}

// BreakDownConcept asks for a concept split into its basic parts.
func (a *AskMe) BreakDownConcept(ctx context.Context, concept string) (string, error) {
	return a.Ask(ctx, fmt.Sprintf(`Break down this concept into its most basic parts: %s

Structure your response as:
1. Core Idea (one sentence)
2. Key Components (bullet points)
3. How It Works (step by step)
4. Why It Matters (practical relevance)

Keep each section short and clear.`, concept), nil)
}
