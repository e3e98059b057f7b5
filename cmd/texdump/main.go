// Package main decodes a texture list and writes each image as a PNG.
package main

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/go573/binprop"
)

func main() {
	args := os.Args[1:]
	if len(args) < 2 {
		fmt.Println("Usage: texdump <indir> <outdir>")
		os.Exit(1)
	}

	indir, outdir := args[0], args[1]

	data, err := os.ReadFile(filepath.Join(indir, "tex", "texturelist.xml"))
	if err != nil {
		log.Fatalf("Failed to read texturelist: %v", err)
	}

	root, err := binprop.DecodeProp(data)
	if err != nil {
		log.Fatalf("Failed to decode texturelist: %v", err)
	}

	list, err := binprop.DecodeTextureList(root)
	if err != nil {
		log.Fatalf("Failed to interpret texture list: %v", err)
	}

	if err := os.MkdirAll(outdir, 0o755); err != nil {
		log.Fatalf("Failed to create %s: %v", outdir, err)
	}

	for _, tx := range list.Textures {
		for _, img := range tx.Images {
			if err := dumpImage(indir, outdir, img); err != nil {
				log.Fatalf("%s: %v", img.Name, err)
			}
		}
	}
}

func dumpImage(indir, outdir string, img *binprop.Image) error {
	blob, err := os.ReadFile(filepath.Join(indir, "tex", img.NameMD5))
	if err != nil {
		return fmt.Errorf("read blob: %w", err)
	}

	pixels, err := binprop.DecodeTexture(img, blob)
	if err != nil {
		return fmt.Errorf("decode pixels: %w", err)
	}

	width := img.Width()
	height := img.Height()

	nrgba := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		b := pixels[i*4+0]
		g := pixels[i*4+1]
		r := pixels[i*4+2]
		a := pixels[i*4+3]
		nrgba.Pix[i*4+0] = r
		nrgba.Pix[i*4+1] = g
		nrgba.Pix[i*4+2] = b
		nrgba.Pix[i*4+3] = a
	}

	dest := filepath.Join(outdir, img.Name+".png")
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	return png.Encode(out, nrgba)
}
