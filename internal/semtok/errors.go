package semtok

import "errors"

var (
	// ErrUnsortedTokens indicates a token that starts before its predecessor.
	ErrUnsortedTokens = errors.New("unsorted tokens")

	// ErrOverlappingTokens indicates overlapping tokens for a client without overlap support.
	ErrOverlappingTokens = errors.New("overlapping tokens")

	// ErrMultilineToken indicates a token whose range spans more than one line.
	ErrMultilineToken = errors.New("multiline token")

	// ErrInvalidToken indicates a token whose type, modifiers or range the legend cannot express.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMalformedTokenPayload indicates encoded data whose length is not a multiple of five,
	// or an edit that does not fit the data it is applied to.
	ErrMalformedTokenPayload = errors.New("malformed token payload")

	// ErrUnknownResultID indicates a delta request naming a result that is not cached.
	ErrUnknownResultID = errors.New("unknown result id")
)
