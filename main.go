package main

import "github.com/frahmantamala/survey-admin/cmd"

func main() {
	cmd.Execute()
}
