// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"slices"
)

// MessageInfo describes the payload carried over a network connection.
type MessageInfo struct {
	MsgType       string
	MsgModuleName string
}

// NetworkConnection is a system-level connection from one upstream app
// endpoint to one or more downstream app endpoints. It is a closed sum type:
// the only implementations are Sender and Publisher.
type NetworkConnection interface {
	// Message returns the payload description.
	Message() MessageInfo
	// Downstreams returns every `app.endpoint` reference that receives data.
	Downstreams() []string
	// Dependency reports whether the connection orders its upstream app
	// before its downstream apps.
	Dependency() bool

	isNetworkConnection()
}

// Sender is a point-to-point connection to a single receiver.
type Sender struct {
	MessageInfo
	// Receiver is the downstream `app.endpoint` reference.
	Receiver string
	// NonDependency excludes the connection from the application order.
	NonDependency bool
}

// Message implements NetworkConnection.
func (s Sender) Message() MessageInfo { return s.MessageInfo }

// Downstreams implements NetworkConnection.
func (s Sender) Downstreams() []string { return []string{s.Receiver} }

// Dependency implements NetworkConnection.
func (s Sender) Dependency() bool { return !s.NonDependency }

func (Sender) isNetworkConnection() {}

// Publisher is a publish/subscribe connection with any number of subscribers.
type Publisher struct {
	MessageInfo
	// Subscribers are the downstream `app.endpoint` references.
	Subscribers []string
	Topics      []string
	// NonDependency excludes the connection from the application order.
	NonDependency bool
}

// Message implements NetworkConnection.
func (p Publisher) Message() MessageInfo { return p.MessageInfo }

// Downstreams implements NetworkConnection.
func (p Publisher) Downstreams() []string { return slices.Clone(p.Subscribers) }

// Dependency implements NetworkConnection.
func (p Publisher) Dependency() bool { return !p.NonDependency }

func (Publisher) isNetworkConnection() {}

// NamedConnection pairs a system connection with its upstream endpoint reference.
type NamedConnection struct {
	Upstream   string
	Connection NetworkConnection
}

// DescribeConnection renders a connection for log and error messages.
func DescribeConnection(nc NetworkConnection) string {
	switch c := nc.(type) {
	case Sender:
		return "sender to " + c.Receiver
	case Publisher:
		return fmt.Sprintf("publisher to %d subscriber(s)", len(c.Subscribers))
	default:
		panic(fmt.Sprintf("unhandled network connection type %T", nc))
	}
}
