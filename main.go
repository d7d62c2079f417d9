package main

import "github.com/expenseworks/expense-claims/cmd"

func main() {
	cmd.Execute()
}
