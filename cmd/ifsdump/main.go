// Package main expands an IFS archive to a directory tree, optionally
// dumping its table of contents as XML alongside the extracted files.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go573/binprop"
)

func main() {
	writeTOC := flag.Bool("toc", false, "also write the table of contents as <outdir>/toc.xml")
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		fmt.Println("Usage: ifsdump [-toc] <infile> <outdir>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	infile, outdir := args[0], args[1]

	f, err := os.Open(infile)
	if err != nil {
		log.Printf("Failed to open %s: %v", infile, err)
		os.Exit(1)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Printf("Failed to stat %s: %v", infile, err)
		os.Exit(1)
	}

	archive, err := binprop.OpenArchive(f, info.Size())
	if err != nil {
		log.Printf("Failed to open archive: %v", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(outdir, 0o755); err != nil {
		log.Printf("Failed to create %s: %v", outdir, err)
		os.Exit(1)
	}

	if err := extract(archive, archive.Root(), outdir); err != nil {
		log.Printf("Failed to extract archive: %v", err)
		os.Exit(1)
	}

	if *writeTOC {
		xml, err := binprop.WriteXML(archive.TOC())
		if err != nil {
			log.Printf("Failed to render TOC as XML: %v", err)
			os.Exit(1)
		}
		if err := os.WriteFile(filepath.Join(outdir, "toc.xml"), xml, 0o644); err != nil {
			log.Printf("Failed to write toc.xml: %v", err)
			os.Exit(1)
		}
	}

	os.Exit(0)
}

func extract(archive *binprop.Archive, dir binprop.Dirent, outdir string) error {
	for _, child := range dir.Children() {
		path := filepath.Join(outdir, child.Name())

		if child.IsDir() {
			if err := os.MkdirAll(path, 0o755); err != nil {
				return err
			}
			if err := extract(archive, child, path); err != nil {
				return err
			}
			continue
		}

		n, err := archive.ReadFile(child, nil)
		if err != nil {
			return err
		}
		buf := make([]byte, n)
		if _, err := archive.ReadFile(child, buf); err != nil {
			return err
		}
		if err := os.WriteFile(path, buf, 0o644); err != nil {
			return err
		}
	}
	return nil
}
