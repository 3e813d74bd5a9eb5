package main

import "github.com/klytics/inquirykit/cmd"

func main() {
	cmd.Execute()
}
