package tables

// ExplicitFrequencyIndex marks a sampling frequency coded as an explicit
// 24-bit value instead of a table index.
const ExplicitFrequencyIndex = 0x0F

// SampleRates maps sampling frequency index to sample rate in Hz.
// Indices 0-11 ported from: sample_rates[] in ~/dev/faad2/libfaad/common.c:61-65
// Index 12 (7350 Hz) is defined in ISO/IEC 14496-3.
// Indices 13-15 are reserved or escape values (0).
var SampleRates = [16]uint32{
	96000, 88200, 64000, 48000, 44100, 32000,
	24000, 22050, 16000, 12000, 11025, 8000,
	7350, 0, 0, 0,
}

// ChannelCounts maps channel configuration to the number of output channels.
// Configuration 0 means the layout is carried in a program config element,
// which is reported as 0 channels.
//
// Source: ISO/IEC 14496-3 Table 1.19
var ChannelCounts = [16]uint8{
	0, 1, 2, 3, 4, 5, 6, 8,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// GetSampleRate returns the sample rate for a given index.
// Returns 0 for reserved and escape indices.
//
// Source: ~/dev/faad2/libfaad/common.c:59-71 (get_sample_rate function)
func GetSampleRate(srIndex uint8) uint32 {
	if srIndex >= 16 {
		return 0
	}
	return SampleRates[srIndex]
}

// GetChannelCount returns the channel count for a channel configuration.
func GetChannelCount(channelConfig uint8) uint8 {
	if channelConfig >= 16 {
		return 0
	}
	return ChannelCounts[channelConfig]
}
