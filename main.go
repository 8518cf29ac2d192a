package main

import "github.com/frahmantamala/contractor-management/cmd"

func main() {
	cmd.Execute()
}
