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

// bp2make translates the Android.bp recipes of a source tree into a Makefile.
//
//	bp2make [flags] [pattern]
//
// Recipes matching pattern (default **/Android.bp) are read in lexicographic order.  The
// Makefile goes to standard output unless -o is given.  See bp2make --help for the flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/minisoong/bp2make/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := bootstrap.Main(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		if !errors.Is(err, bootstrap.ErrReported) {
			fmt.Fprintf(os.Stderr, "bp2make: %s\n", err)
		}
		stop()
		os.Exit(1)
	}
}
