// Command downloader drives an LLFS volume through the same five stages as
// the original test harness's second binary: download the small file,
// download the large file, delete the small file, delete the large file,
// then delete /testdir1 itself. Stage is selected by argument count, as in
// the original app.
package main

import (
	"fmt"
	"os"

	"github.com/sofiabesenski4/filesystem/llfs"
)

const vdiskPath = "../vdisk"

func mountVdisk() *llfs.Store {
	vdisk, err := os.OpenFile(vdiskPath, os.O_RDWR, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open %s: %s\n", vdiskPath, err)
		os.Exit(1)
	}

	store, err := llfs.Mount(vdisk)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to mount %s: %s\n", vdiskPath, err)
		os.Exit(1)
	}
	return store
}

func main() {
	fmt.Printf("Testing app 2: Running tests using the file system: stage %d\n", len(os.Args))

	switch len(os.Args) {
	case 1:
		download("/testdir1/smalltestfile", "downloadedsmalltestfile")
	case 2:
		download("/testdir1/largetestfile", "downloadedlargetestfile")
	case 3:
		fmt.Println("removing the small test file")
		deletePath("/testdir1/smalltestfile")
	case 4:
		fmt.Println("removing the large test file")
		deletePath("/testdir1/largetestfile")
	case 5:
		fmt.Println("removing the directory /testdir1/")
		deletePath("/testdir1")
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [stage-args...]\n", os.Args[0])
		os.Exit(1)
	}
}

func download(remotePath, localName string) {
	store := mountVdisk()

	data, err := store.DownloadFile(remotePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to download %s: %s\n", remotePath, err)
		os.Exit(1)
	}

	if err := os.WriteFile(localName, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write %s: %s\n", localName, err)
		os.Exit(1)
	}
}

func deletePath(remotePath string) {
	store := mountVdisk()

	if err := store.DeleteFilepath(remotePath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to delete %s: %s\n", remotePath, err)
		os.Exit(1)
	}
}
