// Package messages holds the outbound copy and button labels.
package messages

import "fmt"

// Button labels.
const (
	BtnKidMode  = "🧒 Kid day"
	BtnWorkMode = "💼 Work day"

	BtnWorkedYes     = "✅ Yes"
	BtnWorkedPartial = "🤏 Partially"
	BtnWorkedNo      = "❌ No"

	BtnReasonBig   = "😰 The task is too big"
	BtnReasonStuck = "🤔 I'm stuck, don't know where to start"
	BtnReasonFear  = "😨 Afraid it won't be good enough"

	BtnBigDo2  = "⏱️ Do 2 minutes"
	BtnBigSkip = "Skip for now"

	BtnContinue   = "▶️ Keep going"
	BtnContinue10 = "▶️ 10 more minutes"
	BtnClose      = "🏁 Close the day"
	BtnInFlow     = "🌊 I'm in flow"
)

// Fixed prompts.
const (
	StartMessage      = "Hi! I'm your daily anchor. I'll check in with you during the day and help you keep momentum."
	StartModeQuestion = "What kind of day is it today?"

	Morning = "Good morning ☀️ What kind of day is it today?"

	CheckinMidday    = "Midday check-in: did you get to work on your thing?"
	CheckinAfternoon = "Late-afternoon check-in: any progress since midday?"
	CheckinManual    = "Quick check-in: did you work today?"

	ModeKidConfirmed  = "Got it, kid day 🧒 I'll keep the evening quiet."
	ModeWorkConfirmed = "Work day it is 💼 Let's make it count."
	ModeFirstCheckin  = "So, did you already get to work today?"

	WorkedYes     = "Amazing! 🎉 What did you get done? A line or two is enough."
	WorkedPartial = "Partial counts. What's the one small next step? Write it down."
	WorkedNo      = "That's okay. What got in the way?"

	ReasonBig   = "When a task feels huge, two minutes is still a real start."
	ReasonStuck = "Let's shrink it: what's the very first technical action? Just type it."
	ReasonFear  = "It doesn't have to be good, it has to exist. How would a rough first version look? Type it."

	BigActionDo   = "Great. Write 3 bullet points of what the task is made of — nothing more."
	BigActionSkip = "No problem. It'll still be there when you're ready."

	YesWhatDidReceived = "Noted 💪 Want to keep going or close the day?"

	NudgeYesProgress     = "Progress! 🎉 Keep going or close the day?"
	NudgePartialProgress = "Some movement is movement. More time, or close the day?"
	NudgeNoProgress      = "All good. What's the smallest possible 2-minute version? Type it."
	NudgeGiveUp          = "Today didn't cooperate, and that's fine. Rest — tomorrow is a fresh day. 💙"

	InFlowConfirmed = "🌊 In flow — I'll stay out of your way. No more pings today."
	CloseForDay     = "Day closed 🏁 Well done for showing up."
	Continue60Min   = "Great, I'll check back in an hour."

	FreeNoteSaved = "Noted 💭"

	JournalAddPrompt  = "✍️ Write what you want to add to your journal. It'll be saved with a timestamp."
	JournalAddSuccess = "Saved to your journal 📓"
	JournalAddError   = "Couldn't write to the journal, sorry. Try again in a bit."
	JournalEmpty      = "Your journal is empty for now 📝"

	NonOwnerNotice = "Hi 🙂 This is a private bot built for personal use, so it's not active for you."

	GenericError = "Something went wrong on my side. Give it another try in a moment."
)

// Summary copy.
const (
	SummaryHeader        = "📊 *Today's summary*"
	SummaryNoData        = "Nothing recorded today yet."
	SummaryModeKid       = "🧒 Kid day"
	SummaryModeWork      = "💼 Work day"
	SummaryWorkedYes     = "✅ You worked today"
	SummaryWorkedPartial = "🤏 You worked partially"
	SummaryWorkedNo      = "❌ You didn't get to work"
	SummaryEventsHeader  = "*Timeline:*"
	SummaryLastPlan      = "📋 Last plan:"
	SummaryDayDone       = "🏁 Day closed"
	SummaryDayOpen       = "▶️ Day still open"
)

// NudgeMessage is the progress-check prompt a timer delivers.
func NudgeMessage(minutes int) string {
	return fmt.Sprintf("⏰ %d minutes are up. Did you make progress?", minutes)
}

// PlanReceived confirms a captured plan and the auto-scheduled follow-up.
func PlanReceived(minutes int) string {
	return fmt.Sprintf("Got it 📋 I'll check back in %d minutes.", minutes)
}

// StuckReceived confirms a captured first action.
func StuckReceived(minutes int) string {
	return fmt.Sprintf("That's your opening move 🚀 I'll ping you in %d minutes.", minutes)
}

// FearReframeReceived confirms a captured reframe.
func FearReframeReceived(minutes int) string {
	return fmt.Sprintf("Rough and real beats perfect and imaginary 💙 Checking in after %d minutes.", minutes)
}

// BulletsReceived confirms the three bullets.
func BulletsReceived(minutes int) string {
	return fmt.Sprintf("Pick one bullet and give it 5 minutes. I'll check in after %d.", minutes)
}
