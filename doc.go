// Copyright (c) 2026 SciGo DICEx Library Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be found in the LICENSE file.

// Package dicex defines an exchange format for Digital Image Correlation
// (DIC) measurement results. It models a measurement session as an ordered
// sequence of time steps, each carrying reference geometry and named
// scalar, vector, or tensor fields, and maps sessions to and from a
// self-describing HDF5 container with structural validation on both paths.
//
// Sessions are built through the producer API (NewSession, AppendStep) or
// loaded from a container (Open, ReadFile). All model types are immutable
// value objects: constructors copy their inputs, accessors return copies,
// and edits go through replacement constructors. Container access happens
// through Write and Open; both enforce the schema, so a session obtained
// from this package always satisfies its invariants.
package dicex
