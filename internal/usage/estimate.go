package usage

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tiktoken-go/tokenizer"
)

// Estimate is a local token count for a piece of text
type Estimate struct {
	Tokens int    `json:"tokens"`
	Approx bool   `json:"approx"`
	Method string `json:"method"`
}

// Estimator counts tokens with the cl100k_base encoding, falling back to a
// length heuristic when the encoding is unavailable.
type Estimator struct {
	codec tokenizer.Codec
}

// NewEstimator loads the tokenizer encoding
func NewEstimator() *Estimator {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		log.Warn().Err(err).Msg("Tokenizer unavailable, using heuristic token estimates")
		return &Estimator{}
	}
	return &Estimator{codec: codec}
}

// Count estimates the tokens in text
func (e *Estimator) Count(text string) Estimate {
	if e.codec != nil {
		ids, _, err := e.codec.Encode(text)
		if err == nil {
			return Estimate{Tokens: len(ids), Method: "cl100k_base"}
		}
		log.Debug().Err(err).Msg("Tokenizer failed, using heuristic")
	}
	return Estimate{Tokens: approxTokens(text), Approx: true, Method: "heuristic"}
}

// approxTokens is roughly len(text)/4, at least 1 for non-blank text
func approxTokens(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	return max(len(s)/4, 1)
}
