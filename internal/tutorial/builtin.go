package tutorial

import "github.com/pixil98/cryptocity/internal/city"

// BuiltinPuzzles back the offline provider when no puzzle directory is
// configured. There is one per gem topic and one per monolith cipher.
func BuiltinPuzzles() map[string]*Puzzle {
	return map[string]*Puzzle{
		"basics-goal": {
			ID:            "basics-goal",
			Topic:         city.TopicBasics,
			Title:         "Encryption 101",
			Tutorial:      "Encryption turns readable plaintext into unreadable ciphertext using a key. Only someone holding the right key can reverse the process. This keeps data private even when it travels over networks anyone can watch.",
			Task:          "What do we call the scrambled output of an encryption algorithm?",
			CorrectAnswer: "ciphertext",
			Explanation:   "Plaintext goes in, ciphertext comes out.",
		},
		"symmetric-key": {
			ID:            "symmetric-key",
			Topic:         city.TopicSymmetric,
			Title:         "One Key to Rule Them",
			Tutorial:      "Symmetric ciphers use the same secret key to encrypt and decrypt. They are fast, so they protect most bulk data. The hard part is sharing the key safely in the first place.",
			Task:          "Name the widely used symmetric cipher standardized in 2001 (three letters).",
			CorrectAnswer: "AES",
			Explanation:   "The Advanced Encryption Standard replaced DES and is the default symmetric cipher today.",
		},
		"asymmetric-pair": {
			ID:            "asymmetric-pair",
			Topic:         city.TopicAsymmetric,
			Title:         "Locks and Keys",
			Tutorial:      "Public key cryptography uses a key pair. Anyone can encrypt with the public key, but only the matching private key can decrypt. This solves the key sharing problem of symmetric ciphers.",
			Task:          "Which key must you never share: public or private?",
			CorrectAnswer: "private",
			Explanation:   "The private key is what lets its owner decrypt and sign.",
		},
		"hashing-fixed": {
			ID:            "hashing-fixed",
			Topic:         city.TopicHashing,
			Title:         "Fingerprints for Data",
			Tutorial:      "A hash function maps any input to a fixed size digest. Changing a single bit of the input changes the digest completely. Hashes are one way: you cannot recover the input from the digest.",
			Task:          "Can you reverse a cryptographic hash to recover its input? (yes or no)",
			CorrectAnswer: "no",
			Explanation:   "Hash functions are designed to be one way.",
		},
		"signatures-verify": {
			ID:            "signatures-verify",
			Topic:         city.TopicSignatures,
			Title:         "Sign Here",
			Tutorial:      "A digital signature is created with a private key and checked with the matching public key. It proves who sent a message and that it was not altered. Anyone can verify, only the owner can sign.",
			Task:          "Which key is used to verify a signature?",
			CorrectAnswer: "public",
			Explanation:   "Verification uses the signer's public key so anyone can check it.",
		},
		"salts-unique": {
			ID:            "salts-unique",
			Topic:         city.TopicSalts,
			Title:         "A Pinch of Salt",
			Tutorial:      "A salt is random data added to a password before hashing. Two users with the same password get different hashes. This defeats precomputed lookup tables.",
			Task:          "What is the random value added to a password before hashing called?",
			CorrectAnswer: "salt",
			Explanation:   "Salting makes every stored hash unique.",
		},
		"caesar-shift": {
			ID:            "caesar-shift",
			Topic:         city.PuzzleCaesar.Topic(),
			Title:         "The Ancient Caesar Slab",
			Tutorial:      "The Caesar cipher shifts every letter a fixed number of places down the alphabet. With a shift of 3, A becomes D and B becomes E. It is easy to break because there are only 25 useful shifts.",
			Task:          "Decrypt KHOOR with a shift of 3.",
			CorrectAnswer: "hello",
			Explanation:   "Shifting each letter back by 3 turns KHOOR into HELLO.",
		},
		"vigenere-key": {
			ID:            "vigenere-key",
			Topic:         city.PuzzleVigenere.Topic(),
			Title:         "The Vigenere Obelisk",
			Tutorial:      "The Vigenere cipher uses a keyword to pick a different Caesar shift for each letter. The keyword repeats across the message. This hides single letter frequencies far better than a plain Caesar shift.",
			Task:          "Encrypt the letter A with key letter C.",
			CorrectAnswer: "C",
			Explanation:   "Key letter C is a shift of 2, and A shifted by 2 is C.",
		},
		"substitution-map": {
			ID:            "substitution-map",
			Topic:         city.PuzzleSubstitution.Topic(),
			Title:         "The Substitution Totem",
			Tutorial:      "A substitution cipher replaces each letter with another according to a fixed table. The table is the key. Frequency analysis breaks it because common letters stay common.",
			Task:          "Which letter is most common in English and gives substitution ciphers away?",
			CorrectAnswer: "E",
			Explanation:   "E is the most frequent letter in English text.",
		},
	}
}
