package lexer

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"minilex/internal/diag"
	"minilex/internal/source"
	"minilex/internal/token"
	"minilex/internal/trace"
)

type tk struct {
	Kind token.Kind
	Text string
}

func kinds(toks []token.Token) []tk {
	out := make([]tk, 0, len(toks))
	for _, t := range toks {
		out = append(out, tk{t.Kind, t.Text})
	}
	return out
}

func tokensToString(toks []token.Token) string {
	var sb strings.Builder
	for i, t := range toks {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.Kind.String())
		sb.WriteByte('(')
		sb.WriteString(t.Text)
		sb.WriteByte(')')
	}
	return sb.String()
}

func expectTokens(t *testing.T, src string, want []tk) {
	t.Helper()
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q): unexpected error: %v", src, err)
	}
	if diff := cmp.Diff(want, kinds(toks)); diff != "" {
		t.Errorf("Tokenize(%q) mismatch (-want +got):\n%s\ngot: %s", src, diff, tokensToString(toks))
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []tk
	}{
		{"empty", "", []tk{}},
		{"whitespace only", "  \t\n\r\n ", []tk{}},
		{"plus minus", "+-", []tk{{token.Plus, "+"}, {token.Minus, "-"}}},
		{"greater or equal", ">=", []tk{{token.GtEq, ">="}}},
		{"greater", ">", []tk{{token.Gt, ">"}}},
		{"greater space equal", "> =", []tk{{token.Gt, ">"}, {token.Assign, "="}}},
		{"greater equal equal", ">==", []tk{{token.GtEq, ">="}, {token.Assign, "="}}},
		{"equal", "==", []tk{{token.EqEq, "=="}}},
		{"assign", "=", []tk{{token.Assign, "="}}},
		{"triple equal", "===", []tk{{token.EqEq, "=="}, {token.Assign, "="}}},
		{"declaration", "int age = 35", []tk{
			{token.KwInt, "int"}, {token.Ident, "age"}, {token.Assign, "="}, {token.IntLit, "35"},
		}},
		{"declaration digits in name", "int age222 = 35", []tk{
			{token.KwInt, "int"}, {token.Ident, "age222"}, {token.Assign, "="}, {token.IntLit, "35"},
		}},
		{"comparison", "age >= 45", []tk{{token.Ident, "age"}, {token.GtEq, ">="}, {token.IntLit, "45"}}},
		{"comparison gt", "age > 45", []tk{{token.Ident, "age"}, {token.Gt, ">"}, {token.IntLit, "45"}}},
		{"equality", "age == 35", []tk{{token.Ident, "age"}, {token.EqEq, "=="}, {token.IntLit, "35"}}},
		{"compact comparison", "age>=45", []tk{{token.Ident, "age"}, {token.GtEq, ">="}, {token.IntLit, "45"}}},
		{"integer is ident", "integer", []tk{{token.Ident, "integer"}}},
		{"int at end", "int", []tk{{token.KwInt, "int"}}},
		{"in", "in", []tk{{token.Ident, "in"}}},
		{"i", "i", []tk{{token.Ident, "i"}}},
		{"inta", "inta", []tk{{token.Ident, "inta"}}},
		{"int underscore", "int_1", []tk{{token.Ident, "int_1"}}},
		{"i then other letter", "ixy", []tk{{token.Ident, "ixy"}}},
		{"in then digit", "in2", []tk{{token.Ident, "in2"}}},
		{"int before operator", "int>", []tk{{token.Ident, "int"}, {token.Gt, ">"}}},
		{"in before operator", "in>1", []tk{{token.Ident, "in"}, {token.Gt, ">"}, {token.IntLit, "1"}}},
		{"int before tab", "int\tx", []tk{{token.KwInt, "int"}, {token.Ident, "x"}}},
		{"int int", "int int", []tk{{token.KwInt, "int"}, {token.KwInt, "int"}}},
		{"upper Int", "Int", []tk{{token.Ident, "Int"}}},
		{"literal then ident", "123abc", []tk{{token.IntLit, "123"}, {token.Ident, "abc"}}},
		{"ident with digits", "abc123", []tk{{token.Ident, "abc123"}}},
		{"ident with underscores", "a_b_c_", []tk{{token.Ident, "a_b_c_"}}},
		{"leading zeros", "007", []tk{{token.IntLit, "007"}}},
		{"long literal", "12345678901234567890", []tk{{token.IntLit, "12345678901234567890"}}},
		{"tabs and newlines", "a\tb\nc\r\nd", []tk{
			{token.Ident, "a"}, {token.Ident, "b"}, {token.Ident, "c"}, {token.Ident, "d"},
		}},
		{"arithmetic chain", "1+2*3-4/5", []tk{
			{token.IntLit, "1"}, {token.Plus, "+"}, {token.IntLit, "2"}, {token.Star, "*"},
			{token.IntLit, "3"}, {token.Minus, "-"}, {token.IntLit, "4"}, {token.Slash, "/"},
			{token.IntLit, "5"},
		}},
		{"arithmetic spaced", "a + b * c", []tk{
			{token.Ident, "a"}, {token.Plus, "+"}, {token.Ident, "b"}, {token.Star, "*"}, {token.Ident, "c"},
		}},
		{"operators back to back", "+-*/", []tk{
			{token.Plus, "+"}, {token.Minus, "-"}, {token.Star, "*"}, {token.Slash, "/"},
		}},
		{"double slash", "//", []tk{{token.Slash, "/"}, {token.Slash, "/"}}},
		{"assign without spaces", "x=1", []tk{{token.Ident, "x"}, {token.Assign, "="}, {token.IntLit, "1"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectTokens(t, tt.src, tt.want)
		})
	}
}

func TestTokenizeStrictInvalidCharacter(t *testing.T) {
	tests := []struct {
		src  string
		char rune
		pos  int
		span source.Span
	}{
		{"a#b", '#', 1, source.Span{Start: 1, End: 2}},
		{"_a", '_', 0, source.Span{Start: 0, End: 1}},
		{"int x = 3;", ';', 9, source.Span{Start: 9, End: 10}},
		{"é", 'é', 0, source.Span{Start: 0, End: 2}},
		{"ab é", 'é', 3, source.Span{Start: 3, End: 5}},
		{"éé!", 'é', 0, source.Span{Start: 0, End: 2}},
		{"x<y", '<', 1, source.Span{Start: 1, End: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks, err := Tokenize(tt.src)
			if err == nil {
				t.Fatalf("expected error, got tokens %s", tokensToString(toks))
			}
			if toks != nil {
				t.Errorf("expected no tokens on error, got %d", len(toks))
			}
			if !errors.Is(err, ErrInvalidCharacter) {
				t.Fatalf("expected ErrInvalidCharacter, got %v", err)
			}
			var ice *InvalidCharacterError
			if !errors.As(err, &ice) {
				t.Fatalf("expected *InvalidCharacterError, got %T", err)
			}
			if ice.Char != tt.char || ice.Pos != tt.pos {
				t.Errorf("expected %q at %d, got %q at %d", tt.char, tt.pos, ice.Char, ice.Pos)
			}
			if ice.Span.Start != tt.span.Start || ice.Span.End != tt.span.End {
				t.Errorf("expected span %d..%d, got %d..%d", tt.span.Start, tt.span.End, ice.Span.Start, ice.Span.End)
			}
		})
	}
}

func TestInvalidCharacterMessage(t *testing.T) {
	_, err := Tokenize("a#b")
	want := "invalid character '#' (NUMBER SIGN) at position 1"
	if err == nil || err.Error() != want {
		t.Fatalf("expected %q, got %v", want, err)
	}
	_, err = Tokenize("a\x01")
	if err == nil || !strings.Contains(err.Error(), "U+0001") {
		t.Fatalf("expected control character to be printed by code point, got %v", err)
	}
}

func TestTokenizeLenient(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		want  []tk
		diags int
	}{
		{"boundary", "a#b", []tk{{token.Ident, "a"}, {token.Ident, "b"}}, 1},
		{"several", "a#$b", []tk{{token.Ident, "a"}, {token.Ident, "b"}}, 2},
		{"inside keyword", "in#t", []tk{{token.Ident, "in"}, {token.Ident, "t"}}, 1},
		{"after gt", ">#=", []tk{{token.Gt, ">"}, {token.Assign, "="}}, 1},
		{"unicode", "aé1", []tk{{token.Ident, "a"}, {token.IntLit, "1"}}, 1},
		{"clean", "int x", []tk{{token.KwInt, "int"}, {token.Ident, "x"}}, 0},
		{"only invalid", "#;", []tk{}, 2},
		{"broken utf8", "a \xff b", []tk{{token.Ident, "a"}, {token.Ident, "b"}}, 1},
		{"broken utf8 boundary", "ab\xc3(1", []tk{{token.Ident, "ab"}, {token.IntLit, "1"}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := diag.NewBag(100)
			toks := TokenizeLenient(tt.src, diag.BagReporter{Bag: bag})
			if diff := cmp.Diff(tt.want, kinds(toks)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
			if bag.Len() != tt.diags {
				t.Fatalf("expected %d diagnostics, got %d", tt.diags, bag.Len())
			}
			for _, d := range bag.Items() {
				if d.Code != diag.LexInvalidChar || d.Severity != diag.SevError {
					t.Errorf("unexpected diagnostic %v %v", d.Code, d.Severity)
				}
			}
		})
	}
}

func TestTokenizeLenientNilReporter(t *testing.T) {
	toks := TokenizeLenient("x # y", nil)
	if got := tokensToString(toks); got != "Identifier(x) Identifier(y)" {
		t.Fatalf("unexpected tokens: %s", got)
	}
}

func TestLenientDiagnosticSpan(t *testing.T) {
	bag := diag.NewBag(10)
	TokenizeLenient("ab é", diag.BagReporter{Bag: bag})
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Primary.Start != 3 || d.Primary.End != 5 {
		t.Errorf("expected span 3..5, got %d..%d", d.Primary.Start, d.Primary.End)
	}
	if !strings.Contains(d.Message, "LATIN SMALL LETTER E WITH ACUTE") {
		t.Errorf("expected rune name in message, got %q", d.Message)
	}
	if len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, "position 3") {
		t.Errorf("expected position note, got %+v", d.Notes)
	}
}

func TestPositionsAndSpans(t *testing.T) {
	toks := TokenizeLenient("é int  x>=10", nil)
	want := []struct {
		pos        int
		start, end uint32
	}{
		{2, 3, 6},    // int
		{7, 8, 9},    // x
		{8, 9, 11},   // >=
		{10, 11, 13}, // 10
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %s", len(want), tokensToString(toks))
	}
	for i, w := range want {
		got := toks[i]
		if got.Pos != w.pos || got.Span.Start != w.start || got.Span.End != w.end {
			t.Errorf("token %d (%s): expected pos %d span %d..%d, got pos %d span %d..%d",
				i, got.Text, w.pos, w.start, w.end, got.Pos, got.Span.Start, got.Span.End)
		}
	}
}

func TestIdempotentOverWhitespace(t *testing.T) {
	fragments := []string{"int", "age", "=", "35", ">=", "x1", "+", "007", "==", "integer", "/"}
	var all []tk
	for _, f := range fragments {
		toks, err := Tokenize(f)
		if err != nil {
			t.Fatalf("Tokenize(%q): %v", f, err)
		}
		all = append(all, kinds(toks)...)
	}
	for _, sep := range []string{" ", "\t", "\n", " \r\n  "} {
		joined, err := Tokenize(strings.Join(fragments, sep))
		if err != nil {
			t.Fatalf("joined with %q: %v", sep, err)
		}
		if diff := cmp.Diff(all, kinds(joined)); diff != "" {
			t.Errorf("joined with %q mismatch (-fragments +joined):\n%s", sep, diff)
		}
	}
}

func TestTokenizeSafe(t *testing.T) {
	res := TokenizeSafe("int x")
	if !res.Success || res.Err != nil || res.Message() != "" {
		t.Fatalf("expected success, got %+v", res)
	}
	if len(res.Tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(res.Tokens))
	}

	res = TokenizeSafe("a#b")
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Tokens == nil || len(res.Tokens) != 0 {
		t.Errorf("expected empty non-nil tokens, got %#v", res.Tokens)
	}
	if !errors.Is(res.Err, ErrInvalidCharacter) {
		t.Errorf("expected ErrInvalidCharacter, got %v", res.Err)
	}
	if !strings.Contains(res.Message(), "NUMBER SIGN") {
		t.Errorf("unexpected message %q", res.Message())
	}
}

func TestTokenizeInput(t *testing.T) {
	rejected := []any{nil, 42, 3.5, []rune("int"), []byte{0xff, 'a'}, struct{}{}}
	for _, v := range rejected {
		if _, err := TokenizeInput(v); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("TokenizeInput(%#v): expected ErrInvalidInput, got %v", v, err)
		}
	}

	toks, err := TokenizeInput([]byte("int x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := tokensToString(toks); got != "IntKeyword(int) Identifier(x)" {
		t.Errorf("unexpected tokens %s", got)
	}
	if _, err := TokenizeInput("a#"); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("expected invalid character for string input, got %v", err)
	}

	_, err = TokenizeInput(42)
	var iie *InvalidInputError
	if !errors.As(err, &iie) || iie.Type != "int" {
		t.Errorf("expected InvalidInputError{Type: int}, got %v", err)
	}
}

func TestNonTextualFile(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("bin", []byte{'a', 0xc3, 0x28})
	_, err := New(fs.Get(id), Options{Mode: ModeStrict}).Run()
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if strings.Contains(err.Error(), "[]byte") {
		t.Errorf("file error should not name a Go type: %v", err)
	}

	bag := diag.NewBag(0)
	toks, err := New(fs.Get(id), Options{Mode: ModeLenient, Reporter: diag.BagReporter{Bag: bag}}).Run()
	if err != nil {
		t.Fatalf("lenient run failed: %v", err)
	}
	if got := tokensToString(toks); got != "Identifier(a)" {
		t.Errorf("unexpected tokens %s", got)
	}
	if bag.Len() != 2 {
		t.Errorf("expected 2 diagnostics (bad byte and '('), got %d", bag.Len())
	}
}

func TestInvalidUTF8String(t *testing.T) {
	_, err := Tokenize("a \xff b")
	var iie *InvalidInputError
	if !errors.As(err, &iie) || iie.Type != "string" {
		t.Fatalf("expected InvalidInputError{Type: string}, got %v", err)
	}
	if res := TokenizeSafe("a \xff b"); res.Success || !errors.Is(res.Err, ErrInvalidInput) {
		t.Errorf("expected safe failure with ErrInvalidInput, got %+v", res)
	}
	if _, err := TokenizeInput([]byte("a \xff")); err == nil || !strings.Contains(err.Error(), "([]byte)") {
		t.Errorf("expected []byte origin in error, got %v", err)
	}
}

func TestLexerRunTwice(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.mlx", []byte("int a = 1"))
	lx := New(fs.Get(id), Options{})
	first, err := lx.Run()
	if err != nil {
		t.Fatal(err)
	}
	second, err := lx.Run()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs:\n%s", diff)
	}
	if first[0].Span.File != id {
		t.Errorf("expected span file %d, got %d", id, first[0].Span.File)
	}
}

func TestTraceEvents(t *testing.T) {
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.mlx", []byte("x # 1"))
	toks, err := New(fs.Get(id), Options{Mode: ModeLenient, Tracer: ring, TraceParent: 7}).Run()
	if err != nil || len(toks) != 2 {
		t.Fatalf("unexpected result %v %v", toks, err)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.ParentID != 7 {
			t.Errorf("expected parent 7, got %d", ev.ParentID)
		}
		names = append(names, ev.Name)
	}
	if diff := cmp.Diff([]string{"seal", "skip", "seal"}, names); diff != "" {
		t.Errorf("trace events mismatch (-want +got):\n%s", diff)
	}
}

func TestTraceStrictError(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelError)
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.mlx", []byte("a;"))
	if _, err := New(fs.Get(id), Options{Tracer: ring}).Run(); err == nil {
		t.Fatal("expected error")
	}
	evs := ring.Snapshot()
	if len(evs) != 1 || evs[0].Kind != trace.KindError {
		t.Fatalf("expected one error event, got %+v", evs)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeStrict, "strict": ModeStrict, "Lenient": ModeLenient} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("loose"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func mustPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	f()
}

func TestDefectsPanic(t *testing.T) {
	newLexer := func() *Lexer {
		fs := source.NewFileSet()
		id := fs.AddVirtual("a", []byte("int"))
		lx := New(fs.Get(id), Options{})
		lx.cursor = NewCursor(lx.file)
		return lx
	}

	mustPanic(t, func() {
		lx := newLexer()
		lx.state = stateCount
		_ = lx.step('a', lx.cursor.Mark())
	})
	mustPanic(t, func() {
		lx := newLexer()
		lx.state = StateKwI
		lx.tok = pending{kind: token.Ident}
		_ = lx.step('n', lx.cursor.Mark())
	})
	mustPanic(t, func() {
		lx := newLexer()
		lx.begin(StatePlus, lx.cursor.Mark())
		lx.seal(token.Minus, Mark{Off: 1, Pos: 1})
	})
}
