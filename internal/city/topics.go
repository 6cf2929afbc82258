package city

import "fmt"

// Topic is the subject a marker's tutorial covers.
type Topic string

const (
	TopicBasics     Topic = "Basics of Encryption"
	TopicSymmetric  Topic = "Symmetric Ciphers"
	TopicAsymmetric Topic = "Public Key Cryptography"
	TopicHashing    Topic = "Data Integrity & Hashing"
	TopicSignatures Topic = "Digital Signatures"
	TopicSalts      Topic = "Password Salting"
)

// Topics is the fixed enumeration gems are labeled from, in round-robin order.
var Topics = []Topic{
	TopicBasics,
	TopicSymmetric,
	TopicAsymmetric,
	TopicHashing,
	TopicSignatures,
	TopicSalts,
}

// PuzzleType identifies the cipher a monolith teaches.
type PuzzleType string

const (
	PuzzleCaesar       PuzzleType = "CAESAR"
	PuzzleHashing      PuzzleType = "HASHING"
	PuzzleVigenere     PuzzleType = "VIGENERE"
	PuzzleAsymmetric   PuzzleType = "ASYMMETRIC"
	PuzzleSubstitution PuzzleType = "SUBSTITUTION"
)

var puzzleTopics = map[PuzzleType]Topic{
	PuzzleCaesar:       "Caesar Cipher",
	PuzzleHashing:      TopicHashing,
	PuzzleVigenere:     "Vigenere Cipher",
	PuzzleAsymmetric:   TopicAsymmetric,
	PuzzleSubstitution: "Substitution Cipher",
}

// Topic returns the tutorial topic requested for a monolith of this type.
func (p PuzzleType) Topic() Topic {
	return puzzleTopics[p]
}

func (p *PuzzleType) UnmarshalText(text []byte) error {
	pt := PuzzleType(text)
	if _, ok := puzzleTopics[pt]; !ok {
		return fmt.Errorf("unknown puzzle type: %s", text)
	}
	*p = pt
	return nil
}
