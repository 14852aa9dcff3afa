// Command jobctl analyses job descriptions and lists tracked applications
// from the command line.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
