package console

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strconv"
	"unicode"
)

// errNotInteger is returned when a token does not parse as an int.
var errNotInteger = errors.New("not an integer")

// tokenReader splits input into whitespace-separated tokens across lines,
// like a terminal scanner, and can drop what is left of the current line.
type tokenReader struct {
	r *bufio.Reader
}

func newTokenReader(r io.Reader) *tokenReader {
	return &tokenReader{r: bufio.NewReader(r)}
}

// next returns the next token. Returns io.EOF when input is exhausted.
func (t *tokenReader) next() (string, error) {
	// Skip leading whitespace, including newlines.
	for {
		r, _, err := t.r.ReadRune()
		if err != nil {
			return "", err
		}
		if !unicode.IsSpace(r) {
			if err := t.r.UnreadRune(); err != nil {
				return "", err
			}
			break
		}
	}

	var tok []rune
	for {
		r, _, err := t.r.ReadRune()
		if err == io.EOF {
			return string(tok), nil
		}
		if err != nil {
			return "", err
		}
		if unicode.IsSpace(r) {
			// Leave the separator so discardLine sees a pending newline.
			_ = t.r.UnreadRune()
			return string(tok), nil
		}
		tok = append(tok, r)
	}
}

// nextInt reads the next token as an int. A token that is not an integer is
// consumed and reported as errNotInteger.
func (t *tokenReader) nextInt() (int, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, errNotInteger
	}
	return n, nil
}

// discardLine drops input up to and including the next newline.
func (t *tokenReader) discardLine() error {
	_, err := t.r.ReadString('\n')
	if err == io.EOF {
		return nil
	}
	return err
}

// await runs read on its own goroutine and returns ctx.Err() as soon as ctx
// is done, leaving the read pending. A reader abandoned this way must not
// be used again.
func await[T any](ctx context.Context, read func() (T, error)) (T, error) {
	if ctx.Done() == nil {
		return read()
	}

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := read()
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (t *tokenReader) nextCtx(ctx context.Context) (string, error) {
	return await(ctx, t.next)
}

func (t *tokenReader) nextIntCtx(ctx context.Context) (int, error) {
	return await(ctx, t.nextInt)
}

func (t *tokenReader) discardLineCtx(ctx context.Context) error {
	_, err := await(ctx, func() (struct{}, error) {
		return struct{}{}, t.discardLine()
	})
	return err
}
