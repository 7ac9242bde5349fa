package input

// pending marks what the previous keys are waiting for.
type pending uint8

const (
	pendNone pending = iota
	pendG
	pendFind
	pendFindBack
	pendReplace
)

// Parser is the stateful key-sequence parser. Feed it one keystroke at
// a time together with the editor's current mode; it yields one Action
// per completed sequence.
type Parser struct {
	count int
	op    rune // 'd' or 'c' while an operator awaits its motion
	pend  pending
}

// Reset discards any partial sequence.
func (p *Parser) Reset() {
	p.count = 0
	p.op = 0
	p.pend = pendNone
}

// Feed consumes one keystroke. It returns the completed Action,
// ErrIncomplete when more keys are needed, or ErrUnrecognized when the
// sequence matches nothing (the partial sequence is discarded).
func (p *Parser) Feed(mode Mode, k Key) (Action, error) {
	switch mode {
	case Insert, Command:
		return p.textEntry(mode, k)
	case Replace:
		return p.replaceEntry(k)
	}
	return p.normal(mode, k)
}

// textEntry handles Insert and Command mode, where keys pass through.
func (p *Parser) textEntry(mode Mode, k Key) (Action, error) {
	p.Reset()
	switch {
	case k.Special == Escape:
		return Action{Kind: ActSetMode, Mode: Normal, Count: 1}, nil
	case k.Special == Backspace:
		return Action{Kind: ActBackspace, Count: 1}, nil
	case k.Special == Enter:
		if mode == Command {
			return Action{Kind: ActSubmit, Count: 1}, nil
		}
		return Action{Kind: ActInsertRune, Rune: '\n', Count: 1}, nil
	case k.Rune != 0 && !k.Ctrl:
		return Action{Kind: ActInsertRune, Rune: k.Rune, Count: 1}, nil
	}
	return Action{}, ErrUnrecognized
}

func (p *Parser) replaceEntry(k Key) (Action, error) {
	p.Reset()
	switch {
	case k.Special == Escape:
		return Action{Kind: ActSetMode, Mode: Normal, Count: 1}, nil
	case k.Special == Backspace:
		return Action{Kind: ActBackspace, Count: 1}, nil
	case k.Special == Enter:
		return Action{Kind: ActInsertRune, Rune: '\n', Count: 1}, nil
	case k.Rune != 0 && !k.Ctrl:
		return Action{Kind: ActReplaceRune, Rune: k.Rune, Count: 1}, nil
	}
	return Action{}, ErrUnrecognized
}

// normal handles Normal and Visual mode sequences.
func (p *Parser) normal(mode Mode, k Key) (Action, error) {
	if k.Special == Escape {
		p.Reset()
		return Action{Kind: ActSetMode, Mode: Normal, Count: 1}, nil
	}
	if k.Ctrl {
		if k.Rune == 'r' && p.op == 0 && p.pend == pendNone {
			return p.finishSimple(Action{Kind: ActRedo})
		}
		return p.fail()
	}
	if k.Special != None || k.Rune == 0 {
		return p.fail()
	}
	r := k.Rune

	switch p.pend {
	case pendG:
		p.pend = pendNone
		if r == 'g' {
			return p.finishMotion(Motion{Kind: MotionFileStart})
		}
		return p.fail()
	case pendFind:
		p.pend = pendNone
		return p.finishMotion(Motion{Kind: MotionFindChar, Char: r})
	case pendFindBack:
		p.pend = pendNone
		return p.finishMotion(Motion{Kind: MotionFindCharBack, Char: r})
	case pendReplace:
		p.pend = pendNone
		return p.finishSimple(Action{Kind: ActReplaceRune, Rune: r})
	}

	// Counts: leading 1-9 then digits, Normal mode only. A lone 0 is
	// the line-start motion.
	if mode == Normal && r >= '0' && r <= '9' && !(r == '0' && p.count == 0) {
		p.count = p.count*10 + int(r-'0')
		return Action{}, ErrIncomplete
	}

	if m, ok := motionFor(r); ok {
		return p.finishMotion(m)
	}

	switch r {
	case 'd', 'c':
		if p.op == r {
			kind := ActDeleteLine
			if r == 'c' {
				kind = ActCutLine
			}
			return p.finishSimple(Action{Kind: kind})
		}
		if p.op != 0 {
			return p.fail()
		}
		p.op = r
		return Action{}, ErrIncomplete
	case 'g':
		p.pend = pendG
		return Action{}, ErrIncomplete
	case 'f':
		p.pend = pendFind
		return Action{}, ErrIncomplete
	case 'F':
		p.pend = pendFindBack
		return Action{}, ErrIncomplete
	}

	if p.op != 0 {
		return p.fail()
	}

	switch r {
	case 'r':
		p.pend = pendReplace
		return Action{}, ErrIncomplete
	case 'x':
		return p.finishSimple(Action{Kind: ActDeleteChar})
	case 'p':
		return p.finishSimple(Action{Kind: ActPaste, After: true})
	case 'P':
		return p.finishSimple(Action{Kind: ActPaste})
	case 'u':
		return p.finishSimple(Action{Kind: ActUndo})
	case 'i':
		return p.finishSimple(Action{Kind: ActSetMode, Mode: Insert})
	case 'a':
		return p.finishSimple(Action{Kind: ActSetMode, Mode: Insert, After: true})
	case 'v':
		return p.finishSimple(Action{Kind: ActSetMode, Mode: Visual})
	case 'R':
		return p.finishSimple(Action{Kind: ActSetMode, Mode: Replace})
	case ':':
		return p.finishSimple(Action{Kind: ActSetMode, Mode: Command})
	}
	return p.fail()
}

// motionFor maps single-key motions.
func motionFor(r rune) (Motion, bool) {
	var k MotionKind
	switch r {
	case 'h':
		k = MotionLeft
	case 'j':
		k = MotionDown
	case 'k':
		k = MotionUp
	case 'l':
		k = MotionRight
	case 'w':
		k = MotionWordForward
	case 'b':
		k = MotionWordBack
	case 'e':
		k = MotionWordEnd
	case '0':
		k = MotionLineStart
	case '^':
		k = MotionFirstNonBlank
	case '$':
		k = MotionLineEnd
	case 'G':
		k = MotionFileEnd
	case '%':
		k = MotionMatchBracket
	default:
		return Motion{}, false
	}
	return Motion{Kind: k}, true
}

// finishMotion completes a motion, wrapping it in the pending operator
// if one is armed.
func (p *Parser) finishMotion(m Motion) (Action, error) {
	a := Action{Kind: ActMove, Motion: m}
	switch p.op {
	case 'd':
		a.Kind = ActDelete
	case 'c':
		a.Kind = ActCut
	}
	return p.finishSimple(a)
}

func (p *Parser) finishSimple(a Action) (Action, error) {
	a.Count = p.count
	if a.Count == 0 {
		a.Count = 1
	}
	p.Reset()
	return a, nil
}

func (p *Parser) fail() (Action, error) {
	p.Reset()
	return Action{}, ErrUnrecognized
}
