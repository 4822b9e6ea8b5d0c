/*
	Basic Script that churns random sets and removes through a store to help
	build large logs for testing replay.
*/

package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/0xRadioAc7iv/go-kvs/kvs"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
)

const (
	// Fixed universe
	totalKeys   = 100
	totalValues = 100

	// Per-cycle behavior
	keysPerCycleWrite  = 20
	keysPerCycleDelete = 10
	cycles             = 500

	progressEvery = 50
)

func main() {
	dir := "."
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	start := time.Now()
	fmt.Println("Starting kvs churn-heavy load generator")

	keys := makeKeys(totalKeys)
	values := makeValues(totalValues)

	err := kvs.WithStore(dir, func(s *kvs.Store) error {
		if err := churn(s, keys, values); err != nil {
			return err
		}
		fmt.Printf("%d live keys, log is %s\n", s.Len(), humanize.Bytes(uint64(s.LogSize())))
		return nil
	})
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}

	fmt.Printf("Load finished in %v\n", time.Since(start))
}

func churn(s *kvs.Store, keys []string, values []string) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for cycle := 1; cycle <= cycles; cycle++ {

		// ---- WRITE / OVERWRITE PHASE ----
		for i := 0; i < keysPerCycleWrite; i++ {
			key := keys[rng.Intn(len(keys))]
			val := values[rng.Intn(len(values))]

			if err := s.Set(key, val); err != nil {
				return errors.Wrap(err, "SET")
			}
		}

		// ---- DELETE PHASE ----
		for i := 0; i < keysPerCycleDelete; i++ {
			key := keys[rng.Intn(len(keys))]

			if _, err := s.Remove(key); err != nil && !errors.Is(err, kvs.ErrKeyNotFound) {
				return errors.Wrap(err, "REMOVE")
			}
		}

		// ---- REWRITE PHASE (forces overwrite garbage) ----
		for i := 0; i < keysPerCycleWrite/2; i++ {
			key := keys[rng.Intn(len(keys))]
			val := values[rng.Intn(len(values))]

			if err := s.Set(key, val); err != nil {
				return errors.Wrap(err, "REWRITE")
			}
		}

		if cycle%progressEvery == 0 {
			fmt.Printf("completed %d cycles\n", cycle)
		}
	}

	return nil
}

func makeKeys(n int) []string {
	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("key-%03d", i)
	}
	return keys
}

func makeValues(n int) []string {
	values := make([]string, n)
	for i := 0; i < n; i++ {
		values[i] = fmt.Sprintf("value-%03d-xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx", i)
	}
	return values
}
