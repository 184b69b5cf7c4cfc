// Package testutil contains helper fakes used across tests to drive sessions
// without a real MATLAB installation. The FakeEngine records every lifecycle
// and evaluation event so tests can assert exact call counts and command
// strings. These helpers are intentionally minimal and are not intended for
// production usage.
package testutil
