// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package scd40

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// PPM=Parts Per Million. Units of measure for CO2 concentration.
type PPM int

func (p PPM) String() string {
	return fmt.Sprintf("%d PPM", int(p))
}

const (
	// These devices only support this i2c address.
	SensorAddress uint16 = 0x62
)

// Structure to simplify sending commands to the device.
type command struct {
	// The 16-bit command word.
	cmdWord uint16
	// The expected number of bytes returned. 0, 3, or 9.
	responseSize int
	// Settle time the datasheet requires after the command completes.
	delay time.Duration
}

var cmdWakeUp = command{
	cmdWord: 0x36f6,
	delay:   30 * time.Millisecond,
}
var cmdStopMeasurement = command{
	cmdWord: 0x3f86,
	delay:   500 * time.Millisecond,
}
var cmdStartMeasurement = command{
	cmdWord: 0x21b1,
}
var cmdGetDataReadyStatus = command{
	cmdWord:      0xe4b8,
	responseSize: 3,
}
var cmdReadMeasurement = command{
	cmdWord:      0xec05,
	responseSize: 9,
}
var cmdGetSerialNumber = command{
	cmdWord:      0x3682,
	responseSize: 9,
}

// Reading is one measurement fetched from the sensor. It is produced fresh
// on every successful poll and not retained by the driver.
type Reading struct {
	CO2         PPM
	Temperature physic.Temperature
	Humidity    physic.RelativeHumidity
}

func (r Reading) String() string {
	return fmt.Sprintf("CO2: %s Temperature: %s Humidity: %s", r.CO2.String(), r.Temperature.String(), r.Humidity.String())
}

// Dev represents an SCD40/SCD41 device.
type Dev struct {
	// The i2c bus device.
	d *i2c.Dev
}

// NewI2C creates a new SCD40 sensor using the supplied bus and address.
// The constant value SensorAddress should be supplied as the value for
// addr. The device is woken up but measurement mode is left untouched;
// callers sequence StopPeriodicMeasurement and StartPeriodicMeasurement
// explicitly.
func NewI2C(b i2c.Bus, addr uint16) (*Dev, error) {
	d := &Dev{d: &i2c.Dev{Bus: b, Addr: addr}}
	// The sensor does not acknowledge the wake-up while a measurement is
	// already running. The stop command that callers issue next clears
	// that state, so the error is ignored here.
	_, _ = d.sendCommand(cmdWakeUp)
	return d, nil
}

// StopPeriodicMeasurement halts autonomous sampling. The sensor keeps
// measuring across host restarts and rejects most commands while sensing,
// so this is issued before every start as a reset to a known state.
func (d *Dev) StopPeriodicMeasurement() error {
	_, err := d.sendCommand(cmdStopMeasurement)
	return err
}

// StartPeriodicMeasurement puts the sensor into periodic measurement mode.
func (d *Dev) StartPeriodicMeasurement() error {
	_, err := d.sendCommand(cmdStartMeasurement)
	return err
}

// IsDataReady reports whether the sensor has a fresh measurement to read.
func (d *Dev) IsDataReady() (bool, error) {
	words, err := d.sendCommand(cmdGetDataReadyStatus)
	if err != nil {
		return false, err
	}
	// The lower 11 bits are non-zero when data is ready.
	return words[0]&(1<<11-1) != 0, nil
}

// ReadMeasurement fetches CO2, temperature and humidity from the sensor as
// a single transaction.
func (d *Dev) ReadMeasurement() (Reading, error) {
	words, err := d.sendCommand(cmdReadMeasurement)
	if err != nil {
		return Reading{}, err
	}
	return Reading{
		CO2:         PPM(words[0]),
		Temperature: countToTemp(words[1]),
		Humidity:    countToHumidity(words[2]),
	}, nil
}

// Poll is the non-blocking sampling entry point. It returns ok=false with a
// nil error when the sensor has no fresh data yet; that outcome is expected
// between measurement cycles and is not a fault.
func (d *Dev) Poll() (Reading, bool, error) {
	ready, err := d.IsDataReady()
	if err != nil {
		return Reading{}, false, err
	}
	if !ready {
		return Reading{}, false, nil
	}
	r, err := d.ReadMeasurement()
	if err != nil {
		return Reading{}, false, err
	}
	return r, true, nil
}

// SerialNumber returns the 48 bit unique serial number of the device. The
// command is only valid while the sensor is idle.
func (d *Dev) SerialNumber() (uint64, error) {
	words, err := d.sendCommand(cmdGetSerialNumber)
	if err != nil {
		return 0, err
	}
	return uint64(words[0])<<32 | uint64(words[1])<<16 | uint64(words[2]), nil
}

// Halt implements conn.Resource. It stops periodic measurement.
func (d *Dev) Halt() error {
	return d.StopPeriodicMeasurement()
}

func (d *Dev) String() string {
	return fmt.Sprintf("scd40: %s", d.d.String())
}

func crc8(bytes []byte) byte {
	polynomial := byte(0x31)
	crc := byte(0xff)
	for _, val := range bytes {
		crc ^= val
		for i := 0; i < 8; i++ {
			if (crc & 0x80) == 0x80 {
				crc = (crc << 1) ^ polynomial
			} else {
				crc = crc << 1
			}
		}
	}
	return crc
}

// All commands to read from the sensor go through this function. Responses
// are 16-bit words, each followed by a CRC byte which is verified here.
func (d *Dev) sendCommand(cmd command) ([]uint16, error) {
	w := []byte{byte(cmd.cmdWord >> 8), byte(cmd.cmdWord)}
	var r []byte
	if cmd.responseSize > 0 {
		r = make([]byte, cmd.responseSize)
	}
	if err := d.d.Tx(w, r); err != nil {
		return nil, fmt.Errorf("scd40 cmd 0x%04x: %w", cmd.cmdWord, err)
	}
	if cmd.delay > 0 {
		time.Sleep(cmd.delay)
	}
	if cmd.responseSize == 0 {
		return nil, nil
	}

	words := make([]uint16, cmd.responseSize/3)
	for ix := range words {
		if crc8(r[ix*3:ix*3+2]) != r[ix*3+2] {
			return nil, fmt.Errorf("scd40 cmd 0x%04x: invalid crc", cmd.cmdWord)
		}
		words[ix] = uint16(r[ix*3])<<8 | uint16(r[ix*3+1])
	}
	return words, nil
}

// countToTemp converts a device count to Temperature.
func countToTemp(count uint16) physic.Temperature {
	frac := float64(count) / 65535.0
	result := -45 + 175*frac
	return physic.ZeroCelsius + physic.Temperature(float64(physic.Celsius)*result)
}

func countToHumidity(count uint16) physic.RelativeHumidity {
	frac := float64(count) / 65535.0
	return physic.RelativeHumidity(frac * 100.0 * float64(physic.PercentRH))
}
