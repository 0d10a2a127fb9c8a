// Package model provides the data structures shared by the pipeline package and its observers.
// It defines the processor variants that make up a chain, the stage descriptions handed to
// observers, and the option interface observers implement.
package model
