package main

import "facetag/cmd"

func main() {
	cmd.Execute()
}
