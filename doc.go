// Package main provides the entry point of the dealership management
// system. One binary runs any subset of the DMS services (settings, users,
// CRM, inventory, sales, service, parts, financial, reporting, login) and
// the API gateway that authenticates requests and forwards them to the
// services.
package main
