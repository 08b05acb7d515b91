// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package scd40 drives a Sensirion SCD40/SCD41 CO2 sensor over I²C.
//
// Unlike a blocking sense call, the driver exposes the sensor's periodic
// measurement mode directly: the host starts autonomous sampling once and
// then polls for ready data at its own cadence, skipping polls where the
// sensor has nothing new. In periodic mode the sensor produces a reading
// roughly every five seconds.
//
// Refer to the datasheet for more information.
//
// https://sensirion.com/media/documents/48C4B7FB/66E05452/CD_DS_SCD4x_Datasheet_D1.pdf
package scd40
