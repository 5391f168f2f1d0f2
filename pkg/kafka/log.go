// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"fmt"

	loglib "github.com/parmahealth/parma/pkg/log"

	"github.com/segmentio/kafka-go"
)

func makeLogger(logFn func(msg string, fields ...loglib.Fields)) kafka.LoggerFunc {
	return func(msg string, args ...any) {
		logFn(fmt.Sprintf(msg, args...), loglib.Fields{loglib.ModuleField: "kafka_writer"})
	}
}

func makeErrLogger(logFn func(err error, msg string, fields ...loglib.Fields)) kafka.LoggerFunc {
	return func(msg string, args ...any) {
		logFn(nil, fmt.Sprintf(msg, args...), loglib.Fields{loglib.ModuleField: "kafka_writer"})
	}
}
