// Command tabular runs table operations over CSV, JSON and Parquet files.
//
//	tabular groupby people.csv --by department
//	tabular merge orders.parquet customers.csv --on customer_id --how left --out joined.json
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
