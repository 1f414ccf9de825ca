// Package dedup implements the corpus near-duplicate and reuse detection
// engine: sentence extraction, exact/SimHash/embedding matching, block
// merging, and per-document metrics, per SPEC_FULL.md §4.
package dedup

// Document identifies a single corpus document by its stable name, the
// file's path relative to the input directory.
// DocID is assigned in lexicographic order of discovery (SPEC_FULL.md §3).
type Document struct {
	DocID int
	Name  string
}

// SentenceItem is the central record described in SPEC_FULL.md §3.
type SentenceItem struct {
	GID    int
	DocID  int
	SentID int
	Raw    string
	Norm   string
	Sig    uint64
}

// Pair is an unordered cross-document sentence match, canonically ordered
// gidA < gidB. Score interpretation depends on Channel.
type Pair struct {
	GIDA    int
	GIDB    int
	Channel Channel
	Hamming int     // valid when Channel == ChannelSimHash
	Cosine  float64 // valid when Channel == ChannelEmbed
}

// Channel identifies which similarity signal produced a pair.
type Channel int

const (
	ChannelExact Channel = iota
	ChannelSimHash
	ChannelEmbed
)

func (c Channel) String() string {
	switch c {
	case ChannelExact:
		return "exact"
	case ChannelSimHash:
		return "simhash"
	case ChannelEmbed:
		return "embed"
	default:
		return "unknown"
	}
}

// Block is a maximal run of aligned consecutive sentence matches between
// two documents, per SPEC_FULL.md §3.
type Block struct {
	DocA    int
	AStart  int
	AEnd    int
	DocB    int
	BStart  int
	BEnd    int
	Len     int
}

// DocMetrics is one row of doc_metrics.csv, per SPEC_FULL.md §4.9.
type DocMetrics struct {
	Doc                  string
	TotalSentences       int
	MatchedSentencesAny  int
	MatchedSentencesPct  float64
	InBlockSentences     int
	InBlockSentencesPct  float64
}

// Params is the recognized parameter record of SPEC_FULL.md §6.
type Params struct {
	MinSentenceWords int
	SimNgram         int
	SimHammingStrict int
	SimHammingModerate int

	UseEmbeddings          bool
	EmbedModel             string
	EmbedThresholdStrict   float64
	EmbedThresholdModerate float64
	TopK                   int

	BlockMinRun int
}

// DefaultParams returns the documented defaults from SPEC_FULL.md §6.
func DefaultParams() Params {
	return Params{
		MinSentenceWords:       8,
		SimNgram:               3,
		SimHammingStrict:       6,
		SimHammingModerate:     8,
		UseEmbeddings:          false,
		EmbedModel:             "sentence-transformers/all-MiniLM-L6-v2",
		EmbedThresholdStrict:   0.90,
		EmbedThresholdModerate: 0.88,
		TopK:                   8,
		BlockMinRun:            2,
	}
}

// Summary is the payload written to summary.json, per SPEC_FULL.md §6/§4.9.
type Summary struct {
	NDocuments              int            `json:"n_documents"`
	NSentencesKept          int            `json:"n_sentences_kept"`
	ExactPairs              int            `json:"exact_pairs"`
	SimHashPairsModerate    int            `json:"simhash_pairs_moderate"`
	SimHashPairsStrict      int            `json:"simhash_pairs_strict"`
	EmbedPairsModerate      int            `json:"embed_pairs_moderate"`
	EmbedPairsStrict        int            `json:"embed_pairs_strict"`
	BlockMatches            int            `json:"block_matches"`
	Params                  map[string]any `json:"params"`
	Docs                    []string       `json:"docs"`
}

// Result is the complete in-memory output of a run, handed to the output
// writer (C11) for serialization.
type Result struct {
	Docs             []Document
	Items            []SentenceItem
	ExactPairs       []Pair
	SimHashModerate  []Pair
	SimHashStrict    []Pair
	EmbedModerate    []Pair
	EmbedStrict      []Pair
	Blocks           []Block
	DocMetrics       []DocMetrics
	Summary          Summary
}
