/*
Package pcsgear provides golden reference models for the gearboxes of a
10GBASE-R physical coding sublayer (PCS).

A 10GBASE-R PCS transmits 66-bit blocks (a 2-bit sync header followed by a
64-bit payload) over a transceiver that is typically 32 bits wide. The TX
gearbox serializes blocks into a steady stream of 32-bit words, pausing its
input once every 33 cycles to absorb the 66/64 rate mismatch. The RX gearbox
does the opposite and, together with a BlockLock, hunts for block alignment by
slipping the incoming bitstream.

The models are pure synchronous state machines: one call to Next is one clock
cycle. They mirror the bit ordering of the hardware exactly and are meant to be
compared cycle by cycle against an implementation running in a simulator (see
the sim package for a simple cycle based bench).

Other packages provide the remaining pieces of the golden data path:

	bitvec    bit vectors (bit 0 first)
	crc       CRC-32/Ethernet reference models
	pcs       64b/66b encoding and the x^58 + x^39 + 1 scrambler
	mac       Ethernet framing over XGMII
	golden    golden vectors, chunking and strict comparison
	loopback  a TX -> channel -> RX loopback bench built on sim

*/
package pcsgear
