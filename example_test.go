package extsort_test

import (
	"fmt"
	"log"
	"slices"

	"github.com/outofcore/extsort"
)

func ExampleSorter_Sort() {
	sorter := extsort.NewOrdered[int](nil)

	it, err := sorter.Sort(slices.Values([]int{3, 1, 2}))
	if err != nil {
		log.Fatal(err)
	}
	defer it.Close()

	for it.Next() {
		fmt.Println(it.Item())
	}
	if err := it.Err(); err != nil {
		log.Fatal(err)
	}
	// Output:
	// 1
	// 2
	// 3
}

func ExamplePushSorter() {
	sorter := extsort.NewStrings(nil)
	p := sorter.PushSorter()

	// items produced incrementally, e.g. from a callback
	for _, word := range []string{"pear", "apple", "banana"} {
		if err := p.Push(word); err != nil {
			log.Fatal(err)
		}
	}

	it, err := p.Finish()
	if err != nil {
		log.Fatal(err)
	}
	for word, err := range it.All() {
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(word)
	}
	// Output:
	// apple
	// banana
	// pear
}

func ExampleUniq() {
	sorter := extsort.NewOrdered[int](nil)

	it, err := sorter.Sort(slices.Values([]int{2, 1, 2, 3, 1}))
	if err != nil {
		log.Fatal(err)
	}
	for v, err := range extsort.Uniq(it.All()) {
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(v)
	}
	// Output:
	// 1
	// 2
	// 3
}
