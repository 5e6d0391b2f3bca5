package learning

// ExtractionPolicy decides, from the message count before a turn, whether
// that turn triggers learning extraction.
type ExtractionPolicy interface {
	ShouldExtract(messageCount int64) bool
}

// EveryN fires when the count is a multiple of N. N <= 0 disables extraction.
type EveryN struct {
	N int64
}

func (p EveryN) ShouldExtract(messageCount int64) bool {
	if p.N <= 0 || messageCount < 0 {
		return false
	}
	return messageCount%p.N == 0
}

// PolicyFunc adapts a function to ExtractionPolicy.
type PolicyFunc func(messageCount int64) bool

func (f PolicyFunc) ShouldExtract(messageCount int64) bool { return f(messageCount) }
