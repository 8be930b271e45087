// Copyright 2014 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// bpfind prints the recipes bp2make would read, in the order it would read them.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/minisoong/bp2make/pathtools"
)

var cli struct {
	Name    string `help:"Only print recipes with this file name."`
	Without string `help:"Only print recipes without this file in the same directory."`
	Pattern string `arg:"" optional:"" default:"**/Android.bp" help:"Doublestar pattern matching the recipes, or a file name to find in every directory."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("bpfind"),
		kong.Description("Print the recipes bp2make would read, in order."))

	pattern := cli.Pattern
	if !pathtools.IsGlob(pattern) && !strings.Contains(pattern, "/") {
		pattern = "**/" + pattern
	}

	recipes, err := pathtools.FindRecipes(pathtools.OsFs, ".", pattern)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for _, file := range recipes {
		if cli.Name != "" && filepath.Base(file) != cli.Name {
			continue
		}
		if cli.Without != "" {
			exists, _, err := pathtools.OsFs.Exists(filepath.Join(filepath.Dir(file), cli.Without))
			if err != nil || exists {
				continue
			}
		}
		fmt.Println(file)
	}
}
