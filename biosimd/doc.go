// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package biosimd provides the lookup tables used to classify .fa/.fq bases:
// the 4-bit ambiguity encoding shared with .bam ("=ACMGRSVTWYHKDBN"), its
// set-bit cardinality, and the five-way A/C/G/T/other base classes.
//
// All tables are read-only after package initialization.
package biosimd
