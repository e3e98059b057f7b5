// Package main dumps a binary prop stream as XML, writing to a file or
// standard output.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go573/binprop"
)

func main() {
	args := os.Args[1:]
	if len(args) < 1 {
		fmt.Println("Usage: xmldump <infile> [outfile]")
		return
	}

	infile := args[0]
	data, err := os.ReadFile(infile)
	if err != nil {
		log.Fatalf("Failed to read file: %v", err)
	}

	root, err := binprop.DecodeProp(data)
	if err != nil {
		log.Fatalf("Failed to decode prop stream: %v", err)
	}

	xml, err := binprop.WriteXML(root)
	if err != nil {
		log.Fatalf("Failed to render XML: %v", err)
	}

	if len(args) < 2 {
		if _, err := os.Stdout.Write(xml); err != nil {
			log.Fatalf("Failed to write to standard output: %v", err)
		}
		return
	}

	if err := os.WriteFile(args[1], xml, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", args[1], err)
	}
}
