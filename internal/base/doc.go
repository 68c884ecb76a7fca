// Copyright 2025 The duckvec Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package base defines the error markers and logger shared by the duckvec
// packages. Errors returned anywhere in the module carry one of the markers
// below, tested with errors.Is, and may be wrapped any number of times.
package base
