package db

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// OBSERVED_PATH is the on-disk store of contracts seen by earlier runs,
// a plain JSON map from hex address to the contract name reported by the
// block explorer. Every inspected contract is recorded here so later
// lookups can resolve it by name without touching the network.
var OBSERVED_PATH = filepath.Join(getHomeDir(), ".bscscope", "observed.json")

func getHomeDir() string {
	usr, err := user.Current()
	if err != nil {
		log.Fatal(err)
	}
	return usr.HomeDir
}

func readObservedFile() map[string]string {
	file := OBSERVED_PATH
	fi, err := os.Lstat(file)
	if err != nil {
		// No file yet on a fresh install.
		return map[string]string{}
	}
	// if the file is a symlink
	if fi.Mode()&os.ModeSymlink != 0 {
		file, err = os.Readlink(file)
		if err != nil {
			fmt.Printf("reading observed contracts from %s failed: %s. Ignored.\n", OBSERVED_PATH, err)
			return map[string]string{}
		}
	}
	content, err := os.ReadFile(file)
	if err != nil {
		fmt.Printf("reading observed contracts from %s failed: %s. Ignored.\n", OBSERVED_PATH, err)
		return map[string]string{}
	}
	result := map[string]string{}
	if err = json.Unmarshal(content, &result); err != nil {
		fmt.Printf("reading observed contracts from %s failed: %s. Ignored.\n", OBSERVED_PATH, err)
		return map[string]string{}
	}
	return result
}

// ObservedAddresses returns the recorded contracts with lower-cased keys.
func ObservedAddresses() map[string]string {
	result := map[string]string{}
	for addr, desc := range readObservedFile() {
		result[strings.ToLower(addr)] = desc
	}
	return result
}

// RecordObserved stores the name of an inspected contract. Unchanged entries
// are not rewritten so repeated inspections of the same contract leave the
// file untouched.
func RecordObserved(addr, name string) error {
	if name == "" {
		return nil
	}
	data := readObservedFile()
	for existing, desc := range data {
		if strings.EqualFold(existing, addr) {
			if desc == name {
				return nil
			}
			delete(data, existing)
			break
		}
	}
	data[addr] = name

	if err := os.MkdirAll(filepath.Dir(OBSERVED_PATH), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(OBSERVED_PATH), err)
	}
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(OBSERVED_PATH, content, 0644)
}

// AllAddresses merges the seed address book with the observed contracts.
// Observed names win since the explorer reports more specific names than
// the built-in list.
func AllAddresses() map[string]string {
	result := KnownAddresses()
	for addr, desc := range ObservedAddresses() {
		result[addr] = desc
	}
	return result
}
