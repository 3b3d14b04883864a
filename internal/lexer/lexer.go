package lexer

import (
	"minilex/internal/source"
	"minilex/internal/token"
	"minilex/internal/trace"
)

// pending: токен, который сейчас собирается. Хранится по значению,
// в выходной срез попадает только при seal.
type pending struct {
	kind  token.Kind
	start Mark
}

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options

	state State
	tok   pending
	out   []token.Token

	traceTokens bool
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file: file,
		opts: opts,
		traceTokens: opts.Tracer != nil &&
			opts.Tracer.Level().ShouldEmit(trace.KindPoint, trace.ScopeToken),
	}
}

// Run сканирует файл целиком. В strict режиме первая ошибка (или битый UTF-8)
// прерывает разбор и токены не возвращаются; в lenient режиме ошибка всегда nil,
// битые байты пропускаются как недопустимые символы.
func (lx *Lexer) Run() ([]token.Token, error) {
	res := lx.scan()
	if res.failed() {
		return nil, res.err
	}
	return res.tokens, nil
}

// outcome: результат единственного прохода сканера: либо токены, либо ошибка.
type outcome struct {
	tokens []token.Token
	err    error
}

func (o outcome) failed() bool { return o.err != nil }

func (lx *Lexer) scan() outcome {
	if lx.opts.Mode == ModeStrict && !lx.file.Textual() {
		return outcome{err: &InvalidInputError{Reason: "content is not valid UTF-8"}}
	}

	lx.cursor = NewCursor(lx.file)
	lx.state = StateInitial
	lx.tok = pending{}
	lx.out = make([]token.Token, 0, len(lx.file.Content)/4+1)

	for !lx.cursor.EOF() {
		at := lx.cursor.Mark()
		ch := lx.cursor.Bump()
		if err := lx.step(ch, at); err != nil {
			lx.traceError(err)
			return outcome{err: err}
		}
	}
	// конец ввода ведёт себя как пробел
	lx.finish(lx.cursor.Mark())

	return outcome{tokens: lx.out}
}

func (lx *Lexer) traceError(err error) {
	if lx.opts.Tracer == nil {
		return
	}
	trace.Error(lx.opts.Tracer, trace.ScopeToken, lx.opts.TraceParent, "invalid-char", err.Error())
}
