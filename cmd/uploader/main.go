// Command uploader drives an LLFS volume through the same four stages as
// the original test harness: format it, create /testdir1, upload a small
// file into it, then upload a large one. Each stage is selected by how many
// extra arguments are given on the command line, matching the original
// app's argc dispatch exactly.
package main

import (
	"fmt"
	"os"

	"github.com/sofiabesenski4/filesystem/llfs"
)

const vdiskPath = "../vdisk"

func openVdisk() (*os.File, error) {
	return os.OpenFile(vdiskPath, os.O_RDWR, 0644)
}

func main() {
	fmt.Printf("Running tests using the file system: stage %d\n", len(os.Args))

	switch len(os.Args) {
	case 1:
		stageFormat()
	case 2:
		stageCreateDirectory()
	case 3:
		stageUploadFile("smalltestfile")
	case 4:
		stageUploadFile("largetestfile")
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [stage-args...]\n", os.Args[0])
		os.Exit(1)
	}
}

func stageFormat() {
	if _, err := os.Stat(vdiskPath); err == nil {
		return
	}

	vdisk, err := os.OpenFile(vdiskPath, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create %s: %s\n", vdiskPath, err)
		os.Exit(1)
	}
	defer vdisk.Close()

	if err := vdisk.Truncate(llfs.DeviceSize); err != nil {
		fmt.Fprintf(os.Stderr, "failed to size %s: %s\n", vdiskPath, err)
		os.Exit(1)
	}

	if _, err := llfs.Format(vdisk); err != nil {
		fmt.Fprintf(os.Stderr, "failed to format %s: %s\n", vdiskPath, err)
		os.Exit(1)
	}
}

func stageCreateDirectory() {
	vdisk, err := openVdisk()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %s: %s\n", vdiskPath, err)
		os.Exit(1)
	}
	defer vdisk.Close()

	store, err := llfs.Mount(vdisk)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to mount %s: %s\n", vdiskPath, err)
		os.Exit(1)
	}

	if err := store.CreateDirectory("/testdir1"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create /testdir1: %s\n", err)
		os.Exit(1)
	}
}

func stageUploadFile(name string) {
	vdisk, err := openVdisk()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %s: %s\n", vdiskPath, err)
		os.Exit(1)
	}
	defer vdisk.Close()

	store, err := llfs.Mount(vdisk)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to mount %s: %s\n", vdiskPath, err)
		os.Exit(1)
	}

	data, err := os.ReadFile("./" + name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read local file %s: %s\n", name, err)
		os.Exit(1)
	}

	if err := store.UploadFile("/testdir1/"+name, data); err != nil {
		fmt.Fprintf(os.Stderr, "failed to upload %s: %s\n", name, err)
		os.Exit(1)
	}
}
