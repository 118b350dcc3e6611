package syntax

import "github.com/llehouerou/go-latm/internal/bits"

// maxPCEElements is the largest element count a 4-bit PCE field can carry.
const maxPCEElements = 16

// ProgramConfig contains the program_config_element carried in a
// GASpecificConfig when channelConfiguration is 0.
//
// Source: ISO/IEC 14496-3 Table 4.2
type ProgramConfig struct {
	ElementInstanceTag uint8
	ObjectType         uint8
	SFIndex            uint8

	NumFrontChannelElements uint8
	NumSideChannelElements  uint8
	NumBackChannelElements  uint8
	NumLFEChannelElements   uint8
	NumAssocDataElements    uint8
	NumValidCCElements      uint8

	MonoMixdownPresent   bool
	StereoMixdownPresent bool
	MatrixMixdownPresent bool

	FrontElementIsCPE [maxPCEElements]bool
	SideElementIsCPE  [maxPCEElements]bool
	BackElementIsCPE  [maxPCEElements]bool

	CommentFieldBytes uint8

	// Channels is the total output channel count: 2 per CPE, 1 per SCE
	// and LFE.
	Channels uint8
}

// parseProgramConfig parses a program_config_element and copies it to w.
// Mixdown indices and element tags are copied as read. The comment field is
// byte aligned relative to the AudioSpecificConfig, which starts at bit
// ascStart of r and at bit 0 of w. The comment text is skipped and written
// back as an empty comment.
func parseProgramConfig(r *bits.Reader, w *bits.Writer, ascStart uint) *ProgramConfig {
	pce := &ProgramConfig{}
	copyBits := func(n uint) uint32 {
		v := r.GetBits(n)
		w.PutBits(v, n)
		return v
	}

	pce.ElementInstanceTag = uint8(copyBits(4))
	pce.ObjectType = uint8(copyBits(2))
	pce.SFIndex = uint8(copyBits(4))
	pce.NumFrontChannelElements = uint8(copyBits(4))
	pce.NumSideChannelElements = uint8(copyBits(4))
	pce.NumBackChannelElements = uint8(copyBits(4))
	pce.NumLFEChannelElements = uint8(copyBits(2))
	pce.NumAssocDataElements = uint8(copyBits(3))
	pce.NumValidCCElements = uint8(copyBits(4))

	if pce.MonoMixdownPresent = copyBits(1) == 1; pce.MonoMixdownPresent {
		copyBits(4) // mono_mixdown_element_number
	}
	if pce.StereoMixdownPresent = copyBits(1) == 1; pce.StereoMixdownPresent {
		copyBits(4) // stereo_mixdown_element_number
	}
	if pce.MatrixMixdownPresent = copyBits(1) == 1; pce.MatrixMixdownPresent {
		copyBits(2) // matrix_mixdown_idx
		copyBits(1) // pseudo_surround_enable
	}

	channels := 0
	channelElements := func(n uint8, isCPE *[maxPCEElements]bool) {
		for i := range n {
			isCPE[i] = copyBits(1) == 1
			copyBits(4) // element_tag_select
			if isCPE[i] {
				channels += 2
			} else {
				channels++
			}
		}
	}
	channelElements(pce.NumFrontChannelElements, &pce.FrontElementIsCPE)
	channelElements(pce.NumSideChannelElements, &pce.SideElementIsCPE)
	channelElements(pce.NumBackChannelElements, &pce.BackElementIsCPE)

	for range pce.NumLFEChannelElements {
		copyBits(4)
		channels++
	}
	for range pce.NumAssocDataElements {
		copyBits(4)
	}
	for range pce.NumValidCCElements {
		copyBits(1) // cc_element_is_ind_sw
		copyBits(4)
	}

	r.FlushBits((8 - (r.GetProcessedBits()-ascStart)%8) % 8)
	w.Align()

	pce.CommentFieldBytes = uint8(r.GetBits(8))
	r.FlushBits(8 * uint(pce.CommentFieldBytes))
	w.PutBits(0, 8)

	pce.Channels = uint8(min(channels, 255))
	return pce
}
