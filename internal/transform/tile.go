package transform

// vcx8 is an 8-by-width register tile. Loaded straight it holds eight
// consecutive lane vectors of one block; after transposeIn the width
// previously-parallel lanes become width independent rows of eight
// complex values, which is the shape the pointwise square/multiply and
// the carry loops consume. Tiles are transient: copy in, operate, write
// back. They never alias the spectral buffer across threads.
type vcx8 struct {
	z [8]vcx
}

// tileLoad reads eight vectors at consecutive complex offsets
// k, k+width, ..., k+7·width.
func tileLoad(mem []float64, k, width int) vcx8 {
	var t vcx8
	for i := 0; i < 8; i++ {
		t.z[i] = cxLoad(mem, k+i*width, width)
	}
	return t
}

func (t *vcx8) store(mem []float64, k, width int) {
	for i := 0; i < 8; i++ {
		t.z[i].store(mem, k+i*width, width)
	}
}

// tileLoadStrided reads a column tile across the outer-FFT axis: vector
// i sits at offset step·⌊width·i/8⌋ + (width·i mod 8).
func tileLoadStrided(mem []float64, k, step, width int) vcx8 {
	var t vcx8
	for i := 0; i < 8; i++ {
		ih, il := (width*i)/8, (width*i)%8
		t.z[i] = cxLoad(mem, k+step*ih+il, width)
	}
	return t
}

func (t *vcx8) storeStrided(mem []float64, k, step, width int) {
	for i := 0; i < 8; i++ {
		ih, il := (width*i)/8, (width*i)%8
		t.z[i].store(mem, k+step*ih+il, width)
	}
}

// transposeIn converts the 8 lane-parallel vectors into width rows of 8.
func (t *vcx8) transposeIn(width int) {
	var n vcx8
	for i := 0; i < width; i++ {
		for j := 0; j < 8; j++ {
			ind := 8*i + j
			n.z[j].setLane(i, t.z[ind/width].lane(ind%width))
		}
	}
	*t = n
}

// transposeOut is the inverse of transposeIn.
func (t *vcx8) transposeOut(width int) {
	var n vcx8
	for i := 0; i < width; i++ {
		for j := 0; j < 8; j++ {
			ind := 8*i + j
			n.z[ind/width].setLane(ind%width, t.z[j].lane(i))
		}
	}
	*t = n
}

// square4e squares rows 0..3 (the even length-8 subtransform), fusing
// forward radix-4, pointwise square and backward radix-4.
func (t *vcx8) square4e(w vcx) {
	v := vr4{z: [4]vcx{t.z[0], t.z[1], t.z[2], t.z[3]}}
	v.square4e(w)
	t.z[0], t.z[1], t.z[2], t.z[3] = v.z[0], v.z[1], v.z[2], v.z[3]
}

// square4o squares rows 4..7 (the odd, right-angle subtransform).
func (t *vcx8) square4o(w vcx) {
	v := vr4{z: [4]vcx{t.z[4], t.z[5], t.z[6], t.z[7]}}
	v.square4o(w)
	t.z[4], t.z[5], t.z[6], t.z[7] = v.z[0], v.z[1], v.z[2], v.z[3]
}

// mul4Forward applies only the forward halves of square4e/square4o,
// leaving the tile in the spectral shape mul4 expects from a prepared
// multiplicand.
func (t *vcx8) mul4Forward(w vcx) {
	u0, u2 := t.z[0], t.z[2].mulW(w)
	u1, u3 := t.z[1], t.z[3].mulW(w)
	t.z[0], t.z[2] = u0.add(u2), u0.sub(u2)
	t.z[1], t.z[3] = u1.add(u3), u1.sub(u3)
	u4, u6 := t.z[4], t.z[6].mulW(w)
	u5, u7 := t.z[5], t.z[7].mulW(w)
	t.z[4], t.z[6] = u4.addI(u6), u4.subI(u6)
	t.z[5], t.z[7] = u5.addI(u7), u7.addI(u5)
}

// mul4 is the product form of the squaring butterflies: rhs must have
// been prepared with mul4Forward.
func (t *vcx8) mul4(rhs *vcx8, w vcx) {
	u0, u2 := t.z[0], t.z[2].mulW(w)
	u1, u3 := t.z[1], t.z[3].mulW(w)
	v0, v2, v1, v3 := u0.add(u2), u0.sub(u2), u1.add(u3), u1.sub(u3)
	vp0, vp2, vp1, vp3 := rhs.z[0], rhs.z[2], rhs.z[1], rhs.z[3]
	s0 := v0.mul(vp0).add(v1.mul(vp1).mulW(w))
	s1 := v0.mul(vp1).add(vp0.mul(v1))
	s2 := v2.mul(vp2).sub(v3.mul(vp3).mulW(w))
	s3 := v2.mul(vp3).add(vp2.mul(v3))
	t.z[0] = s0.add(s2)
	t.z[2] = s0.sub(s2).mulWconj(w)
	t.z[1] = s1.add(s3)
	t.z[3] = s1.sub(s3).mulWconj(w)

	u4, u6 := t.z[4], t.z[6].mulW(w)
	u5, u7 := t.z[5], t.z[7].mulW(w)
	v4, v6 := u4.addI(u6), u4.subI(u6)
	v5, v7 := u5.addI(u7), u7.addI(u5)
	vp4, vp6, vp5, vp7 := rhs.z[4], rhs.z[6], rhs.z[5], rhs.z[7]
	s4 := v5.mul(vp5).mulW(w).subI(v4.mul(vp4))
	s5 := v4.mul(vp5).add(vp4.mul(v5))
	s6 := v6.mul(vp6).addI(v7.mul(vp7).mulW(w))
	s7 := v6.mul(vp7).add(vp6.mul(v7))
	t.z[4] = s6.addI(s4)
	t.z[6] = s4.addI(s6).mulWconj(w)
	t.z[5] = s5.subI(s7)
	t.z[7] = s7.subI(s5).mulWconj(w)
}
