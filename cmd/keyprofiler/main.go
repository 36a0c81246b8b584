package main

import "github.com/dbsmedya/keyprofiler/cmd/keyprofiler/cmd"

func main() {
	cmd.Execute()
}
