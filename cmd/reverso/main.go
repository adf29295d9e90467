// Copyright 2024 The reverso Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command reverso translates text and HTML with the Reverso API.
//
// Configuration is read from an optional YAML file given by --config
// and from REVERSO_ environment variables. A .env file in the working
// directory is loaded first, if present.
//
//	reverso text --from fra --to eng "Bonjour"
//	echo '<p>Bonjour</p>' | reverso html --from fra --to eng
//	reverso languages --target
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
