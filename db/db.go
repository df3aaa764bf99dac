package db

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

func getAddressMatches(input string, source FuzzySource) ([]AddressDesc, []int) {
	matches := fuzzy.FindFrom(strings.Replace(input, " ", "_", -1), source)
	result := []AddressDesc{}
	scores := []int{}
	for i := 0; i < 10; i++ {
		if i < len(matches) {
			result = append(result, source[matches[i].Index])
			scores = append(scores, matches[i].Score)
		} else {
			break
		}
	}
	return result, scores
}

// GetAddresses fuzzy-matches input against the merged address book and
// returns up to 10 results with their match scores. Input can be a name
// fragment ("pancake router") or a hex address prefix.
func GetAddresses(input string) ([]AddressDesc, []int) {
	source := NewFuzzySource()
	return getAddressMatches(input, source)
}

// GetAddress returns the best fuzzy match for input.
func GetAddress(input string) (AddressDesc, error) {
	source := NewFuzzySource()
	matches, _ := getAddressMatches(input, source)
	if len(matches) == 0 {
		return AddressDesc{}, fmt.Errorf("no address is found with '%s'", input)
	}
	return matches[0], nil
}
