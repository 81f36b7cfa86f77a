// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Command dicex inspects, validates and builds DIC exchange containers.
package main

import (
	"os"

	"github.com/scigolib/dicex/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
