package compiler

import (
	"context"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"tlog.app/go/errors"

	"github.com/slowlang/stm2ir/compiler/front"
	"github.com/slowlang/stm2ir/compiler/parse"
)

var _ = Describe("Run", func() {
	var (
		mockCtrl *gomock.Controller
		src      *MockSource
		dst      *MockSink
		ctx      context.Context
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		src = NewMockSource(mockCtrl)
		dst = NewMockSink(mockCtrl)
		ctx = context.Background()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	feed := func(lines ...string) {
		calls := []*gomock.Call{}

		for _, l := range lines {
			calls = append(calls, src.EXPECT().Next().Return([]byte(l), true))
		}

		calls = append(calls, src.EXPECT().Next().Return(nil, false))

		gomock.InOrder(calls...)
	}

	It("should write the module and close both ends", func() {
		feed("x=5", "", "x")
		src.EXPECT().Err().Return(nil)
		src.EXPECT().Close().Return(nil)

		var out []string
		dst.EXPECT().
			WriteLine(gomock.Any()).
			Do(func(l string) { out = append(out, l) }).
			Return(nil).
			Times(10)
		dst.EXPECT().Close().Return(nil)

		err := Run(ctx, src, dst, Options{})

		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(10))
		Expect(out[0]).To(Equal("; ModuleID = 'stm2ir'"))
		Expect(out[4:8]).To(Equal([]string{
			"%x = alloca i32",
			"store i32 5, i32* %x",
			"%1 = load i32* %x",
			"call i32 (i8*, ...)* @printf(i8* getelementptr ([4 x i8]* @print.str, i32 0, i32 0), i32 %1 )",
		}))
		Expect(out[8:]).To(Equal([]string{"ret i32 0", "}"}))
	})

	It("should write header and footer for an empty source", func() {
		feed()
		src.EXPECT().Err().Return(nil)
		src.EXPECT().Close().Return(nil)

		dst.EXPECT().WriteLine(gomock.Any()).Return(nil).Times(6)
		dst.EXPECT().Close().Return(nil)

		Expect(Run(ctx, src, dst, Options{})).To(Succeed())
	})

	It("should abort the sink on a parse error", func() {
		src.EXPECT().Next().Return([]byte("a=1"), true)
		src.EXPECT().Next().Return([]byte("b=(a"), true)
		src.EXPECT().Close().Return(nil)

		dst.EXPECT().Abort().Return(nil)

		err := Run(ctx, src, dst, Options{})

		Expect(err).To(HaveOccurred())
		Expect(err).To(BeAssignableToTypeOf(parse.ParseError{}))
	})

	It("should abort the sink in strict mode on an undefined variable", func() {
		src.EXPECT().Next().Return([]byte("a=b"), true)
		src.EXPECT().Close().Return(nil)

		dst.EXPECT().Abort().Return(nil)

		err := Run(ctx, src, dst, Options{Options: front.Options{Strict: true}})

		Expect(err).To(MatchError(front.ErrUndefinedVariable))
	})

	It("should abort the sink on a read error", func() {
		feed("a=1")
		src.EXPECT().Err().Return(errors.New("disk on fire"))
		src.EXPECT().Close().Return(nil)

		dst.EXPECT().Abort().Return(nil)

		err := Run(ctx, src, dst, Options{})

		Expect(err).To(MatchError(ContainSubstring("disk on fire")))
		Expect(err).To(MatchError(ContainSubstring("line 2")))
	})

	It("should abort the sink when a write fails", func() {
		feed("1")
		src.EXPECT().Err().Return(nil)
		src.EXPECT().Close().Return(nil)

		dst.EXPECT().WriteLine(gomock.Any()).Return(nil).Times(2)
		dst.EXPECT().WriteLine(gomock.Any()).Return(errors.New("short write"))
		dst.EXPECT().Abort().Return(nil)

		err := Run(ctx, src, dst, Options{})

		Expect(err).To(MatchError(ContainSubstring("short write")))
	})

	It("should report a failed sink close", func() {
		feed()
		src.EXPECT().Err().Return(nil)
		src.EXPECT().Close().Return(nil)

		dst.EXPECT().WriteLine(gomock.Any()).Return(nil).AnyTimes()
		dst.EXPECT().Close().Return(errors.New("no space"))

		err := Run(ctx, src, dst, Options{})

		Expect(err).To(MatchError(ContainSubstring("close sink")))
	})

	It("should abort the sink when the source fails to close", func() {
		feed()
		src.EXPECT().Err().Return(nil)
		src.EXPECT().Close().Return(errors.New("bad fd"))

		dst.EXPECT().WriteLine(gomock.Any()).Return(nil).AnyTimes()
		dst.EXPECT().Abort().Return(nil)

		err := Run(ctx, src, dst, Options{})

		Expect(err).To(MatchError(ContainSubstring("close source")))
	})

	It("should close the source before committing the sink", func() {
		feed()
		src.EXPECT().Err().Return(nil)

		dst.EXPECT().WriteLine(gomock.Any()).Return(nil).AnyTimes()

		gomock.InOrder(
			src.EXPECT().Close().Return(nil),
			dst.EXPECT().Close().Return(nil),
		)

		Expect(Run(ctx, src, dst, Options{})).To(Succeed())
	})

	It("should verify the module when asked", func() {
		feed("a=1", "b=a*(a+2)", "b")
		src.EXPECT().Err().Return(nil)
		src.EXPECT().Close().Return(nil)

		dst.EXPECT().WriteLine(gomock.Any()).Return(nil).AnyTimes()
		dst.EXPECT().Close().Return(nil)

		Expect(Run(ctx, src, dst, Options{Verify: true})).To(Succeed())
	})
})
