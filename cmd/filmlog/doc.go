// Command filmlog is a CLI logbook for analog photography: film stock
// inventory, cameras and lenses, and rolls moving through the
// shoot → develop → scan lifecycle.
package main
