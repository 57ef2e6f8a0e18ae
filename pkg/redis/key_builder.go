package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// Ballot key builders

func (kb *KeyBuilder) KeyOpenElections() string {
	return kb.BuildKey(KeyOpenElections)
}

func (kb *KeyBuilder) KeyBallotVoted(memberID int64, positionID int64) string {
	return kb.BuildKey(fmt.Sprintf(KeyBallotVoted, memberID, positionID))
}

func (kb *KeyBuilder) KeyBallotProgress(memberID int64, electionID int64) string {
	return kb.BuildKey(fmt.Sprintf(KeyBallotProgress, memberID, electionID))
}

// Tally key builders

func (kb *KeyBuilder) KeyTally(electionID int64, positionID int64) string {
	return kb.BuildKey(fmt.Sprintf(KeyTally, electionID, positionID))
}

func (kb *KeyBuilder) KeyElectionReport(electionID int64) string {
	return kb.BuildKey(fmt.Sprintf(KeyElectionReport, electionID))
}

// KeyCustom builds a key from an arbitrary pattern
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	return kb.BuildKey(fmt.Sprintf(pattern, args...))
}
