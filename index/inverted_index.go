package index

import (
	"bytes"
	"encoding/gob"
	"sync"
)

// InvertedIndex maps a term (token) to the list of citable units containing
// it, sorted by term frequency.
type InvertedIndex struct {
	Mu    sync.RWMutex
	Index map[string]PostingList
}

// NewInvertedIndex creates an empty index.
func NewInvertedIndex() *InvertedIndex {
	return &InvertedIndex{Index: make(map[string]PostingList)}
}

// gobInvertedIndexData is a helper struct for Gob encoding/decoding
// InvertedIndex data. It excludes the mutex.
type gobInvertedIndexData struct {
	Index map[string]PostingList
}

// GobEncode implements the gob.GobEncoder interface for InvertedIndex.
func (ii *InvertedIndex) GobEncode() ([]byte, error) {
	ii.Mu.RLock()
	defer ii.Mu.RUnlock()

	dataToEncode := gobInvertedIndexData{Index: ii.Index}

	var buf bytes.Buffer
	encoder := gob.NewEncoder(&buf)
	if err := encoder.Encode(dataToEncode); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements the gob.GobDecoder interface for InvertedIndex.
func (ii *InvertedIndex) GobDecode(data []byte) error {
	decodedData := gobInvertedIndexData{}

	buf := bytes.NewBuffer(data)
	decoder := gob.NewDecoder(buf)
	if err := decoder.Decode(&decodedData); err != nil {
		return err
	}

	ii.Mu.Lock()
	defer ii.Mu.Unlock()

	ii.Index = decodedData.Index
	if ii.Index == nil {
		ii.Index = make(map[string]PostingList)
	}
	return nil
}
