package tokens

import "errors"

// KeySource supplies signing material. Current signs new tokens; every key in
// VerificationKeys (Current first) is tried when verifying, which is what allows
// a secret to be rotated without logging everybody out.
type KeySource interface {
	Current() []byte
	VerificationKeys() [][]byte
}

var ErrNoKey = errors.New("tokens: signing secret is empty")

// StaticKeys is a KeySource fixed for the process lifetime.
type StaticKeys struct {
	current  []byte
	previous [][]byte
}

// NewStaticKeys builds a key source from the current secret and any retired secrets
// that should still verify.
func NewStaticKeys(current string, previous ...string) (*StaticKeys, error) {
	if current == "" {
		return nil, ErrNoKey
	}
	k := &StaticKeys{current: []byte(current)}
	for _, p := range previous {
		if p != "" && p != current {
			k.previous = append(k.previous, []byte(p))
		}
	}
	return k, nil
}

func (k *StaticKeys) Current() []byte { return k.current }

func (k *StaticKeys) VerificationKeys() [][]byte {
	out := make([][]byte, 0, 1+len(k.previous))
	out = append(out, k.current)
	return append(out, k.previous...)
}
