package bleve

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/blevesearch/bleve"
	"github.com/blevesearch/bleve/analysis/lang/en"
	"github.com/blevesearch/bleve/mapping"
	"golang.org/x/crypto/sha3"

	bsccommon "github.com/tranvictor/bscscope/common"
	"github.com/tranvictor/bscscope/db"
)

var (
	BLEVE_PATH      string = filepath.Join(getHomeDir(), ".bscscope", "bleve.json")
	BLEVE_DATA_PATH string = filepath.Join(getHomeDir(), ".bscscope", "addresses.bleve")
	bleveDB         *BleveDB
	once            sync.Once
)

func getHomeDir() string {
	usr, err := user.Current()
	if err != nil {
		log.Fatal(err)
	}
	return usr.HomeDir
}

// sourceHash fingerprints the address book content. The index is rebuilt
// whenever the fingerprint changes, which covers both edits to the seed list
// in new releases and contracts recorded by previous runs.
func sourceHash(addrs map[string]string) string {
	keys := make([]string, 0, len(addrs))
	for k := range addrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h := sha3.New256()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%s\n", k, addrs[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// BleveDB wraps the on-disk full-text index over the address book. Hash is
// the fingerprint of the indexed content, persisted to BLEVE_PATH so an
// unchanged address book skips reindexing entirely.
type BleveDB struct {
	index bleve.Index
	Hash  string
}

func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = en.AnalyzerName

	defaultMapping := bleve.NewDocumentMapping()
	defaultMapping.AddFieldMappingsAt("desc",
		textFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.AddDocumentMapping("_default", defaultMapping)

	indexMapping.TypeField = "type"
	indexMapping.DefaultAnalyzer = "en"

	return indexMapping
}

func loadIndex(bdb *BleveDB) error {
	index, err := bleve.Open(BLEVE_DATA_PATH)
	if err != nil && err != bleve.ErrorIndexPathDoesNotExist {
		return err
	}

	if err == nil {
		bdb.index = index
	}

	addrs := db.AllAddresses()
	h := sourceHash(addrs)

	if err == bleve.ErrorIndexPathDoesNotExist {
		// here index file doesn't exist, create one
		if err = os.MkdirAll(filepath.Dir(BLEVE_DATA_PATH), 0755); err != nil {
			return err
		}
		indexMapping := buildIndexMapping()
		index, err = bleve.New(BLEVE_DATA_PATH, indexMapping)
		if err != nil {
			return err
		}
		bdb.index = index
		bdb.Hash = ""
	}

	if bdb.Hash != h {
		err = indexAddresses(bdb.index, addrs)
		if err != nil {
			return err
		}
		bdb.Hash = h
		return bdb.Persist()
	}
	return nil
}

func loadBleveDB() (*BleveDB, error) {
	result := &BleveDB{}
	content, err := os.ReadFile(BLEVE_PATH)
	if err != nil {
		return result, nil
	}
	err = json.Unmarshal(content, result)
	if err != nil {
		return result, nil
	}

	return result, nil
}

// NewBleveDB opens (or builds) the shared index. The heavy open-and-reindex
// path runs at most once per process.
func NewBleveDB() (*BleveDB, error) {
	var resError error
	once.Do(func() {
		bleveDB, resError = loadBleveDB()
		if resError != nil {
			return
		}
		resError = loadIndex(bleveDB)
	})
	return bleveDB, resError
}

func (bleveDB *BleveDB) Persist() error {
	jsonData, err := json.MarshalIndent(bleveDB, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(BLEVE_PATH, jsonData, 0644)
}

// Search runs a phrase query and a fuzzy query (edit distance 1) over the
// index and returns the union, best matches first. Scores are scaled to
// integers so they can be compared with the fuzzy database scores.
func (bleveDB *BleveDB) Search(input string) ([]AddressDesc, []int) {
	matchQuery := bleve.NewMatchPhraseQuery(input)
	fuzzyQuery := bleve.NewFuzzyQuery(input)
	fuzzyQuery.Fuzziness = 1
	query := bleve.NewDisjunctionQuery(matchQuery, fuzzyQuery)
	request := bleve.NewSearchRequest(query)
	searchResults, err := bleveDB.index.Search(request)
	if err != nil {
		fmt.Printf("Address db search failed: %s\n", err)
		return []AddressDesc{}, []int{}
	}

	results := []AddressDesc{}
	resultScores := []int{}
	for _, searchResult := range searchResults.Hits {
		doc, err := bleveDB.index.Document(searchResult.ID)
		if err != nil {
			fmt.Printf("getting address data for %s failed: %s. Ignored.", searchResult.ID, err)
			continue
		}
		result := AddressDesc{}
		for _, field := range doc.Fields {
			switch field.Name() {
			case "Address":
				result.Address = string(field.Value())
			case "Desc":
				result.Desc = string(field.Value())
			}
		}
		resultScores = append(resultScores, int(searchResult.Score*1000000))
		results = append(results, result)
	}
	return results, resultScores
}

func indexAddresses(i bleve.Index, addrs map[string]string) error {
	start := time.Now()
	batch := i.NewBatch()
	batchCount := 0
	bsccommon.DebugPrintf("indexing %d addresses\n", len(addrs))
	for addr, desc := range addrs {
		batch.Index(addr, AddressDesc{
			Address: addr,
			Desc:    desc,
		})
		batchCount++

		if batchCount >= 1000 {
			err := i.Batch(batch)
			if err != nil {
				return err
			}
			batch = i.NewBatch()
			batchCount = 0
		}
	}
	// flush the last batch
	if batchCount > 0 {
		err := i.Batch(batch)
		if err != nil {
			return err
		}
	}
	bsccommon.DebugPrintf("Total index time: %s\n", time.Since(start))
	return nil
}
