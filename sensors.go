package ocre

// Sensor calls are routed to the host unchanged.

// SensorsInit initializes the host sensor subsystem.
func (s *SDK) SensorsInit() error { return s.host.SensorsInit() }

// SensorsDiscover enumerates available sensors and returns their count.
func (s *SDK) SensorsDiscover() (int, error) { return s.host.SensorsDiscover() }

// SensorOpen opens the sensor behind handle for reading.
func (s *SDK) SensorOpen(handle int) error { return s.host.SensorOpen(handle) }

// SensorHandle resolves a sensor id to its handle.
func (s *SDK) SensorHandle(sensorID int) (int, error) { return s.host.SensorHandle(sensorID) }

// SensorChannelCount returns the number of channels of a sensor.
func (s *SDK) SensorChannelCount(sensorID int) (int, error) {
	return s.host.SensorChannelCount(sensorID)
}

// SensorChannelType returns the type of the channel at channelIndex.
func (s *SDK) SensorChannelType(sensorID, channelIndex int) (int, error) {
	return s.host.SensorChannelType(sensorID, channelIndex)
}

// SensorRead samples one channel of a sensor.
func (s *SDK) SensorRead(sensorID, channelType int) (float64, error) {
	return s.host.SensorRead(sensorID, channelType)
}
