package transform

// Root-of-unity constants for the top transform levels, in Gentleman
// (cos α, tan α) form.
const sqrt22 = 0.707106781186547524400844362104849039284835937688

var (
	cs2pi116 = complex(0.92387953251128675612818318939678828682, 0.41421356237309504880168872420969807857)
	cs2pi132 = complex(0.98078528040323044912618223613423903697, 0.19891236737965800691159762264467622860)
	cs2pi532 = complex(0.55557023301960222474283081394853287438, 1.49660576266548901760113513494247691870)
)

// vr4 is a radix-4 butterfly register set: four lane vectors loaded with
// a common stride, transformed in place, and stored back.
type vr4 struct {
	z [4]vcx
}

func vr4Load(mem []float64, k, step, width int) vr4 {
	var v vr4
	for i := 0; i < 4; i++ {
		v.z[i] = cxLoad(mem, k+i*step, width)
	}
	return v
}

func (v *vr4) store(mem []float64, k, step, width int) {
	for i := 0; i < 4; i++ {
		v.z[i].store(mem, k+i*step, width)
	}
}

// forward4e is the decimation-in-time butterfly for an even subproblem:
// twiddles w0 = w and w1 = w^½.
func (v *vr4) forward4e(w0, w1 vcx) {
	u0, u2, u1, u3 := v.z[0], v.z[2].mulW(w0), v.z[1], v.z[3].mulW(w0)
	v0, v2 := u0.add(u2), u0.sub(u2)
	v1 := u1.add(u3).mulW(w1)
	v3 := u1.sub(u3).mulW(w1)
	v.z[0] = v0.add(v1)
	v.z[1] = v0.sub(v1)
	v.z[2] = v2.addI(v3)
	v.z[3] = v2.subI(v3)
}

// forward4o is the odd-subproblem variant: the first pair combines with
// ±i in place of ±1, and the second twiddle is w^½·e^{iπ/(2s)}.
func (v *vr4) forward4o(w0, w2 vcx) {
	u0, u2, u1, u3 := v.z[0], v.z[2].mulW(w0), v.z[1], v.z[3].mulW(w0)
	v0, v2 := u0.addI(u2), u0.subI(u2)
	v1 := u1.addI(u3).mulW(w2)
	v3 := u1.subI(u3).mulW(w2)
	v.z[0] = v0.add(v1)
	v.z[1] = v0.sub(v1)
	v.z[2] = v2.addI(v3)
	v.z[3] = v2.subI(v3)
}

func (v *vr4) backward4e(w0, w1 vcx) {
	v0, v1, v2, v3 := v.z[0], v.z[1], v.z[2], v.z[3]
	u0, u1 := v0.add(v1), v0.sub(v1).mulWconj(w1)
	u2, u3 := v2.add(v3), v2.sub(v3).mulWconj(w1)
	v.z[0] = u0.add(u2)
	v.z[2] = u0.sub(u2).mulWconj(w0)
	v.z[1] = u1.subI(u3)
	v.z[3] = u1.addI(u3).mulWconj(w0)
}

func (v *vr4) backward4o(w0, w2 vcx) {
	v0, v1, v2, v3 := v.z[0], v.z[1], v.z[2], v.z[3]
	u0, u1 := v0.add(v1), v0.sub(v1).mulWconj(w2)
	u2, u3 := v2.add(v3), v2.sub(v3).mulWconj(w2)
	v.z[0] = u0.add(u2)
	v.z[2] = u2.subIr(u0).mulWconj(w0)
	v.z[1] = u1.subI(u3)
	v.z[3] = u3.subI(u1).mulWconj(w0)
}

// forward4_0 is the top-level butterfly: the twiddle is e^{iπ/8} and the
// √½ of the negacyclic weight is folded in.
func (v *vr4) forward4_0(w0 vcx) {
	u0, u2 := v.z[0], v.z[2].mul1i()
	u1, u3 := v.z[1].mulW(w0), v.z[3].mulWconj(w0)
	v0, v2 := u0.add(u2.scale(sqrt22)), u0.sub(u2.scale(sqrt22))
	v1, v3 := u1.addI(u3), u3.addI(u1)
	v.z[0] = v0.add(v1)
	v.z[1] = v0.sub(v1)
	v.z[2] = v2.add(v3)
	v.z[3] = v2.sub(v3)
}

func (v *vr4) backward4_0(w0 vcx) {
	v0, v1, v2, v3 := v.z[0], v.z[1], v.z[2], v.z[3]
	u0, u1, u2, u3 := v0.add(v1), v0.sub(v1), v2.add(v3), v2.sub(v3)
	v.z[0] = u0.add(u2)
	v.z[2] = u0.sub(u2).mul1mi().scale(sqrt22)
	v.z[1] = u1.subI(u3).mulWconj(w0)
	v.z[3] = u3.subI(u1).mulW(w0)
}

// square4e fuses the last forward radix-4, four pointwise squarings and
// the first backward radix-4 of an even subproblem into one routine.
// Only w and its conjugate are needed.
func (v *vr4) square4e(w vcx) {
	u0, u2, u1, u3 := v.z[0], v.z[2].mulW(w), v.z[1], v.z[3].mulW(w)
	v0, v2, v1, v3 := u0.add(u2), u0.sub(u2), u1.add(u3), u1.sub(u3)
	s0 := v0.sqr().add(v1.sqr().mulW(w))
	s1 := v0.add(v0).mul(v1)
	s2 := v2.sqr().sub(v3.sqr().mulW(w))
	s3 := v2.add(v2).mul(v3)
	v.z[0] = s0.add(s2)
	v.z[2] = s0.sub(s2).mulWconj(w)
	v.z[1] = s1.add(s3)
	v.z[3] = s1.sub(s3).mulWconj(w)
}

// square4o is the odd (right-angle) form of square4e; the ±i combines
// realize the convolution modulo x^N + 1 rather than x^N − 1.
func (v *vr4) square4o(w vcx) {
	u0, u2, u1, u3 := v.z[0], v.z[2].mulW(w), v.z[1], v.z[3].mulW(w)
	v0, v2 := u0.addI(u2), u0.subI(u2)
	v1, v3 := u1.addI(u3), u3.addI(u1)
	s0 := v1.sqr().mulW(w).subI(v0.sqr())
	s1 := v0.add(v0).mul(v1)
	s2 := v2.sqr().addI(v3.sqr().mulW(w))
	s3 := v2.add(v2).mul(v3)
	v.z[0] = s2.addI(s0)
	v.z[2] = s0.addI(s2).mulWconj(w)
	v.z[1] = s1.subI(s3)
	v.z[3] = s3.subI(s1).mulWconj(w)
}

// vr8 is the radix-8 register set used when the outer stage count is
// odd: one radix-8 level at the top absorbs what would otherwise be an
// unpaired radix-2.
type vr8 struct {
	z [8]vcx
}

func vr8Load(mem []float64, k, step, width int) vr8 {
	var v vr8
	for i := 0; i < 8; i++ {
		v.z[i] = cxLoad(mem, k+i*step, width)
	}
	return v
}

func (v *vr8) store(mem []float64, k, step, width int) {
	for i := 0; i < 8; i++ {
		v.z[i].store(mem, k+i*step, width)
	}
}

func (v *vr8) forward8_0() {
	w0 := cxBroadcast(cs2pi116)
	u0, u4 := v.z[0], v.z[4].mul1i()
	u2, u6 := v.z[2].mulW(w0), v.z[6].mul1i().mulW(w0)
	u1, u5 := v.z[1], v.z[5].mul1i()
	u3, u7 := v.z[3].mulW(w0), v.z[7].mul1i().mulW(w0)
	v0, v4 := u0.add(u4.scale(sqrt22)), u0.sub(u4.scale(sqrt22))
	v2, v6 := u2.add(u6.scale(sqrt22)), u2.sub(u6.scale(sqrt22))
	w1, w2 := cxBroadcast(cs2pi132), cxBroadcast(cs2pi532)
	v1 := u1.add(u5.scale(sqrt22)).mulW(w1)
	v5 := u1.sub(u5.scale(sqrt22)).mulW(w2)
	v3 := u3.add(u7.scale(sqrt22)).mulW(w1)
	v7 := u3.sub(u7.scale(sqrt22)).mulW(w2)
	s0, s2, s1, s3 := v0.add(v2), v0.sub(v2), v1.add(v3), v1.sub(v3)
	s4, s6, s5, s7 := v4.addI(v6), v4.subI(v6), v5.addI(v7), v5.subI(v7)
	v.z[0] = s0.add(s1)
	v.z[1] = s0.sub(s1)
	v.z[2] = s2.addI(s3)
	v.z[3] = s2.subI(s3)
	v.z[4] = s4.add(s5)
	v.z[5] = s4.sub(s5)
	v.z[6] = s6.addI(s7)
	v.z[7] = s6.subI(s7)
}

func (v *vr8) backward8_0() {
	s0, s1, s2, s3 := v.z[0], v.z[1], v.z[2], v.z[3]
	s4, s5, s6, s7 := v.z[4], v.z[5], v.z[6], v.z[7]
	w1, w2 := cxBroadcast(cs2pi132), cxBroadcast(cs2pi532)
	v0, v1 := s0.add(s1), s0.sub(s1).mulWconj(w1)
	v2, v3 := s2.add(s3), s2.sub(s3).mulWconj(w1)
	v4, v5 := s4.add(s5), s4.sub(s5).mulWconj(w2)
	v6, v7 := s6.add(s7), s6.sub(s7).mulWconj(w2)
	u0, u2, u4, u6 := v0.add(v2), v0.sub(v2), v4.add(v6), v4.sub(v6)
	u1, u3 := v1.subI(v3), v1.addI(v3)
	u5, u7 := v5.subI(v7), v5.addI(v7)
	w0 := cxBroadcast(cs2pi116)
	v.z[0] = u0.add(u4)
	v.z[4] = u0.sub(u4).mul1mi().scale(sqrt22)
	v.z[2] = u2.subI(u6).mulWconj(w0)
	v.z[6] = u6.subI(u2).mulW(w0)
	v.z[1] = u1.add(u5)
	v.z[5] = u1.sub(u5).mul1mi().scale(sqrt22)
	v.z[3] = u3.subI(u7).mulWconj(w0)
	v.z[7] = u7.subI(u3).mulW(w0)
}

// forward4eV / forward4oV / backward4eV / backward4oV apply a butterfly
// to four vectors already held in registers (the cross-lane stage of the
// 8-wide inner FFT operates on a transposed scratch array, not memory).
func forward4eV(z []vcx, w0, w1 vcx) {
	v := vr4{z: [4]vcx{z[0], z[1], z[2], z[3]}}
	v.forward4e(w0, w1)
	z[0], z[1], z[2], z[3] = v.z[0], v.z[1], v.z[2], v.z[3]
}

func forward4oV(z []vcx, w0, w2 vcx) {
	v := vr4{z: [4]vcx{z[0], z[1], z[2], z[3]}}
	v.forward4o(w0, w2)
	z[0], z[1], z[2], z[3] = v.z[0], v.z[1], v.z[2], v.z[3]
}

func backward4eV(z []vcx, w0, w1 vcx) {
	v := vr4{z: [4]vcx{z[0], z[1], z[2], z[3]}}
	v.backward4e(w0, w1)
	z[0], z[1], z[2], z[3] = v.z[0], v.z[1], v.z[2], v.z[3]
}

func backward4oV(z []vcx, w0, w2 vcx) {
	v := vr4{z: [4]vcx{z[0], z[1], z[2], z[3]}}
	v.backward4o(w0, w2)
	z[0], z[1], z[2], z[3] = v.z[0], v.z[1], v.z[2], v.z[3]
}
