package bleve

import (
	"fmt"
)

type AddressDesc struct {
	Address string
	Desc    string
}

// GetAddress returns the best full-text match for input.
func GetAddress(input string) (AddressDesc, error) {
	results, _ := GetAddresses(input)
	if len(results) == 0 {
		return AddressDesc{}, fmt.Errorf("couldn't find address for: %s", input)
	}
	return results[0], nil
}

// GetAddresses searches the local full-text index and returns matches with
// their scores. A failure to open the index degrades to no results so that
// callers can fall back to the fuzzy database.
func GetAddresses(input string) ([]AddressDesc, []int) {
	db, err := NewBleveDB()
	if err != nil {
		fmt.Printf("Getting address db failed: %s\n", err)
		return []AddressDesc{}, []int{}
	}
	return db.Search(input)
}
