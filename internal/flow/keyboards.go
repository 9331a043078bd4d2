package flow

import "telegram-anchor-bot/internal/messages"

// KbDayMode is exported for the /start command, which asks for the day's
// mode outside the engine's reply path.
func KbDayMode() [][]Button {
	return [][]Button{{
		{Label: messages.BtnKidMode, Data: "mode:kid"},
		{Label: messages.BtnWorkMode, Data: "mode:work"},
	}}
}

func kbWorked() [][]Button {
	return [][]Button{{
		{Label: messages.BtnWorkedYes, Data: "worked:yes"},
		{Label: messages.BtnWorkedPartial, Data: "worked:partial"},
		{Label: messages.BtnWorkedNo, Data: "worked:no"},
	}}
}

func kbNoReason() [][]Button {
	return [][]Button{
		{{Label: messages.BtnReasonBig, Data: "noreason:big"}},
		{{Label: messages.BtnReasonStuck, Data: "noreason:stuck"}},
		{{Label: messages.BtnReasonFear, Data: "noreason:fear"}},
	}
}

func kbBigAction() [][]Button {
	return [][]Button{{
		{Label: messages.BtnBigDo2, Data: "bigaction:do2"},
		{Label: messages.BtnBigSkip, Data: "bigaction:skip"},
	}}
}

func kbYesNext() [][]Button {
	return [][]Button{
		{
			{Label: messages.BtnContinue, Data: "yesnext:continue"},
			{Label: messages.BtnClose, Data: "yesnext:close"},
		},
		{{Label: messages.BtnInFlow, Data: "yesnext:flow"}},
	}
}

func kbPartialNext() [][]Button {
	return [][]Button{
		{
			{Label: messages.BtnContinue10, Data: "yesnext:continue"},
			{Label: messages.BtnClose, Data: "yesnext:close"},
		},
		{{Label: messages.BtnInFlow, Data: "nudge:flow"}},
	}
}

// KbNudgeProgress is the keyboard a fired nudge carries. Exported because the
// transport adapter renders nudges outside the engine's reply path.
func KbNudgeProgress() [][]Button {
	return [][]Button{{
		{Label: messages.BtnWorkedYes, Data: "nudge:yes"},
		{Label: messages.BtnWorkedPartial, Data: "nudge:partial"},
		{Label: messages.BtnWorkedNo, Data: "nudge:no"},
	}}
}
