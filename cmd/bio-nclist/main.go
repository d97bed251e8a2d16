package main

import "github.com/grailbio/nclist/cmd/bio-nclist/cmd"

func main() {
	cmd.Run()
}
