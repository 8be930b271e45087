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

// Package bootstrap is the command-line front end of bp2make.
//
// Main resolves a Config, finds the recipes of the source tree, translates them with a
// bp2make.Context and writes the Makefile, optionally with a dependency file so that make can
// regenerate it when a recipe changes:
//
//	Makefile: $(shell find . -name Android.bp)
//		bp2make -o $@ -d $@.d
//	-include Makefile.d
//
// # Configuration
//
// Settings are resolved from four sources, highest precedence first:
//
//  1. Command-line flags, and the DEB_HOST_ARCH and DEB_HOST_MULTIARCH environment variables
//     standing in for --arch and --multiarch.
//  2. A dotenv file given with --env-file.  Besides the two variables above it may set
//     BP2MAKE_TARGET.
//  3. A YAML file, bp2make.yaml in the working directory or the file given with --config:
//
//	arch: amd64
//	multiarch: x86_64-linux-gnu
//	target: linux_glibc
//	pattern: "**/Android.bp"
//	debian_dir: debian
//	cache_size: 1024
//
//  4. DefaultConfig.
//
// When no source names the host architecture, dpkg-architecture is asked for it.
//
// # Logging
//
// Progress, warnings about unsupported module types and errors are logged to standard error
// with log/slog.  --log-format selects text, json or pretty output, the last colorized when
// standard error is a terminal.
package bootstrap
