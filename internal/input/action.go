package input

// MotionKind enumerates cursor motions.
type MotionKind uint8

const (
	MotionNone MotionKind = iota
	MotionLeft
	MotionRight
	MotionUp
	MotionDown
	MotionWordForward
	MotionWordBack
	MotionWordEnd
	MotionLineStart
	MotionFirstNonBlank
	MotionLineEnd
	MotionFileStart
	MotionFileEnd
	MotionMatchBracket
	MotionFindChar
	MotionFindCharBack
)

// Motion is a cursor motion; Char carries the target of f/F.
type Motion struct {
	Kind MotionKind
	Char rune
}

// ActionKind enumerates what the editor should do.
type ActionKind uint8

const (
	ActNone ActionKind = iota
	ActMove
	ActInsertRune
	ActReplaceRune
	ActDeleteChar
	ActDelete
	ActCut
	ActDeleteLine
	ActCutLine
	ActPaste
	ActBackspace
	ActUndo
	ActRedo
	ActSetMode
	ActSubmit
)

// Action is one fully parsed editor command. Count is at least 1.
type Action struct {
	Kind   ActionKind
	Count  int
	Motion Motion
	Rune   rune

	// Mode is the ActSetMode target; After is the ActPaste placement.
	Mode  Mode
	After bool
}
