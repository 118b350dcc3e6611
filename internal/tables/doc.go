// Package tables contains the MPEG-4 Audio lookup tables used when parsing
// LATM and AudioSpecificConfig headers.
//
// Ported from: ~/dev/faad2/libfaad/common.c and ISO/IEC 14496-3 Table 1.16,
// Table 1.19
package tables
