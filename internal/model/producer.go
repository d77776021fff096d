// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

// FragmentProducer is a module that answers data requests with data
// fragments and must be reachable from the aggregating application.
type FragmentProducer struct {
	GeoID GeoID
	// RequestsIn is the `module.slot` that receives data requests.
	RequestsIn string
	// FragmentsOut is the `module.slot` that emits fragments.
	FragmentsOut string
	// QueueName is unique system-wide. It is empty until the fragment
	// connector's allocation phase assigns it.
	QueueName string
}
