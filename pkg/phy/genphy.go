package phy

import (
	"fmt"

	"github.com/devmodel/devmodel-go/pkg/errcode"
)

// resetPollLimit bounds the BMCR reads while waiting for a soft reset to
// self-clear.
const resetPollLimit = 600

// GenphySoftReset sets BMCR_RESET and waits for the PHY to clear it.
func GenphySoftReset(d *Device) error {
	bmcr, err := d.Read(RegBMCR)
	if err != nil {
		return err
	}
	if err := d.Write(RegBMCR, bmcr&^BMCRIsolate|BMCRReset); err != nil {
		return err
	}
	for range resetPollLimit {
		bmcr, err = d.Read(RegBMCR)
		if err != nil {
			return err
		}
		if bmcr&BMCRReset == 0 {
			return nil
		}
	}
	return fmt.Errorf("%s: soft reset did not complete: %w", d.name, errcode.ErrIO)
}

// GenphyReadAbilities derives the supported link modes from BMSR.
func GenphyReadAbilities(d *Device) error {
	bmsr, err := d.Read(RegBMSR)
	if err != nil {
		return err
	}
	var f Features
	if bmsr&BMSRANCapable != 0 {
		f |= FeatureAutoneg
	}
	if bmsr&BMSR10Half != 0 {
		f |= Feature10Half
	}
	if bmsr&BMSR10Full != 0 {
		f |= Feature10Full
	}
	if bmsr&BMSR100Half != 0 {
		f |= Feature100Half
	}
	if bmsr&BMSR100Full != 0 {
		f |= Feature100Full
	}
	d.SetSupported(f)
	return nil
}

// GenphyConfigAneg writes the advertisement and restarts
// autonegotiation, or forces speed and duplex when autonegotiation is
// disabled.
func GenphyConfigAneg(d *Device) error {
	if !d.IsAutonegEnabled() {
		return GenphySetupForced(d)
	}
	if err := d.Modify(RegAdvertise, advertiseAll, advertiseBits(d.Advertising())); err != nil {
		return err
	}
	return GenphyRestartAneg(d)
}

// GenphyRestartAneg enables and restarts autonegotiation.
func GenphyRestartAneg(d *Device) error {
	return d.Modify(RegBMCR, BMCRIsolate, BMCRANEnable|BMCRANRestart)
}

// GenphySetupForced programs the forced speed and duplex into BMCR.
func GenphySetupForced(d *Device) error {
	var set uint16
	if d.Speed() == Speed100 {
		set |= BMCRSpeed100
	}
	if d.Duplex() == DuplexFull {
		set |= BMCRFullDuplex
	}
	return d.Modify(RegBMCR, BMCRSpeed100|BMCRFullDuplex|BMCRANEnable|BMCRIsolate|BMCRPowerDown, set)
}

// GenphyUpdateLink reads the link and autonegotiation-complete bits. A
// pending autonegotiation restart reports the link down.
func GenphyUpdateLink(d *Device) error {
	bmcr, err := d.Read(RegBMCR)
	if err != nil {
		return err
	}
	if bmcr&BMCRANRestart != 0 {
		d.setLink(false, false)
		return nil
	}
	bmsr, err := d.Read(RegBMSR)
	if err != nil {
		return err
	}
	d.setLink(bmsr&BMSRLinkStatus != 0, bmsr&BMSRANComplete != 0)
	return nil
}

// GenphyReadStatus updates the link and resolves speed and duplex, from
// the common advertisement when autonegotiating or from BMCR when
// forced.
func GenphyReadStatus(d *Device) error {
	if err := GenphyUpdateLink(d); err != nil {
		return err
	}

	bmcr, err := d.Read(RegBMCR)
	if err != nil {
		return err
	}
	if bmcr&BMCRANEnable == 0 {
		speed, duplex := Speed10, DuplexHalf
		if bmcr&BMCRSpeed100 != 0 {
			speed = Speed100
		}
		if bmcr&BMCRFullDuplex != 0 {
			duplex = DuplexFull
		}
		d.setResolved(speed, duplex)
		return nil
	}

	if !d.IsAutonegCompleted() {
		d.setResolved(SpeedUnknown, DuplexUnknown)
		return nil
	}
	lpa, err := d.Read(RegLPA)
	if err != nil {
		return err
	}
	adv, err := d.Read(RegAdvertise)
	if err != nil {
		return err
	}
	d.setResolved(resolveAneg(lpa & adv))
	return nil
}

// GenphySuspend powers the PHY down.
func GenphySuspend(d *Device) error {
	return d.Modify(RegBMCR, 0, BMCRPowerDown)
}

// GenphyResume powers the PHY up.
func GenphyResume(d *Device) error {
	return d.Modify(RegBMCR, BMCRPowerDown, 0)
}

// ReadID reads the 32-bit identifier of the PHY at addr.
func ReadID(mii MII, addr uint8) (uint32, error) {
	hi, err := mii.Read(addr, RegPHYSID1)
	if err != nil {
		return 0, err
	}
	lo, err := mii.Read(addr, RegPHYSID2)
	if err != nil {
		return 0, err
	}
	return uint32(hi)<<16 | uint32(lo), nil
}

func advertiseBits(f Features) uint16 {
	var adv uint16
	if f.Has(Feature10Half) {
		adv |= Advertise10Half
	}
	if f.Has(Feature10Full) {
		adv |= Advertise10Full
	}
	if f.Has(Feature100Half) {
		adv |= Advertise100Half
	}
	if f.Has(Feature100Full) {
		adv |= Advertise100Full
	}
	return adv
}

func resolveAneg(common uint16) (uint32, DuplexMode) {
	switch {
	case common&Advertise100Full != 0:
		return Speed100, DuplexFull
	case common&Advertise100Half != 0:
		return Speed100, DuplexHalf
	case common&Advertise10Full != 0:
		return Speed10, DuplexFull
	case common&Advertise10Half != 0:
		return Speed10, DuplexHalf
	default:
		return SpeedUnknown, DuplexUnknown
	}
}
