package notesv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	NotesService_CreateNote_FullMethodName = "/notes.v1.NotesService/CreateNote"
	NotesService_ListNotes_FullMethodName  = "/notes.v1.NotesService/ListNotes"
	NotesService_EditNote_FullMethodName   = "/notes.v1.NotesService/EditNote"
	NotesService_DeleteNote_FullMethodName = "/notes.v1.NotesService/DeleteNote"
	NotesService_WhoAmI_FullMethodName     = "/notes.v1.NotesService/WhoAmI"
	NotesService_WatchNotes_FullMethodName = "/notes.v1.NotesService/WatchNotes"
)

// NotesServiceClient клиентский API NotesService
type NotesServiceClient interface {
	CreateNote(ctx context.Context, in *CreateNoteRequest, opts ...grpc.CallOption) (*CreateNoteResponse, error)
	ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error)
	EditNote(ctx context.Context, in *EditNoteRequest, opts ...grpc.CallOption) (*EditNoteResponse, error)
	DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*DeleteNoteResponse, error)
	WhoAmI(ctx context.Context, in *WhoAmIRequest, opts ...grpc.CallOption) (*WhoAmIResponse, error)
	WatchNotes(ctx context.Context, in *WatchNotesRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[NoteEvent], error)
}

type notesServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewNotesServiceClient создает клиента. Все вызовы идут с content-subtype json.
func NewNotesServiceClient(cc grpc.ClientConnInterface) NotesServiceClient {
	return &notesServiceClient{cc}
}

func callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

func (c *notesServiceClient) CreateNote(ctx context.Context, in *CreateNoteRequest, opts ...grpc.CallOption) (*CreateNoteResponse, error) {
	out := new(CreateNoteResponse)
	err := c.cc.Invoke(ctx, NotesService_CreateNote_FullMethodName, in, out, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) ListNotes(ctx context.Context, in *ListNotesRequest, opts ...grpc.CallOption) (*ListNotesResponse, error) {
	out := new(ListNotesResponse)
	err := c.cc.Invoke(ctx, NotesService_ListNotes_FullMethodName, in, out, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) EditNote(ctx context.Context, in *EditNoteRequest, opts ...grpc.CallOption) (*EditNoteResponse, error) {
	out := new(EditNoteResponse)
	err := c.cc.Invoke(ctx, NotesService_EditNote_FullMethodName, in, out, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) DeleteNote(ctx context.Context, in *DeleteNoteRequest, opts ...grpc.CallOption) (*DeleteNoteResponse, error) {
	out := new(DeleteNoteResponse)
	err := c.cc.Invoke(ctx, NotesService_DeleteNote_FullMethodName, in, out, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) WhoAmI(ctx context.Context, in *WhoAmIRequest, opts ...grpc.CallOption) (*WhoAmIResponse, error) {
	out := new(WhoAmIResponse)
	err := c.cc.Invoke(ctx, NotesService_WhoAmI_FullMethodName, in, out, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notesServiceClient) WatchNotes(ctx context.Context, in *WatchNotesRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[NoteEvent], error) {
	stream, err := c.cc.NewStream(ctx, &NotesService_ServiceDesc.Streams[0], NotesService_WatchNotes_FullMethodName, callOptions(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[WatchNotesRequest, NoteEvent]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// NotesService_WatchNotesServer серверная сторона стрима событий
type NotesService_WatchNotesServer = grpc.ServerStreamingServer[NoteEvent]

// NotesServiceServer серверный API NotesService
type NotesServiceServer interface {
	CreateNote(context.Context, *CreateNoteRequest) (*CreateNoteResponse, error)
	ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error)
	EditNote(context.Context, *EditNoteRequest) (*EditNoteResponse, error)
	DeleteNote(context.Context, *DeleteNoteRequest) (*DeleteNoteResponse, error)
	WhoAmI(context.Context, *WhoAmIRequest) (*WhoAmIResponse, error)
	WatchNotes(*WatchNotesRequest, NotesService_WatchNotesServer) error
	mustEmbedUnimplementedNotesServiceServer()
}

// UnimplementedNotesServiceServer встраивается в реализации для совместимости вперед
type UnimplementedNotesServiceServer struct{}

func (UnimplementedNotesServiceServer) CreateNote(context.Context, *CreateNoteRequest) (*CreateNoteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateNote not implemented")
}
func (UnimplementedNotesServiceServer) ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListNotes not implemented")
}
func (UnimplementedNotesServiceServer) EditNote(context.Context, *EditNoteRequest) (*EditNoteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EditNote not implemented")
}
func (UnimplementedNotesServiceServer) DeleteNote(context.Context, *DeleteNoteRequest) (*DeleteNoteResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeleteNote not implemented")
}
func (UnimplementedNotesServiceServer) WhoAmI(context.Context, *WhoAmIRequest) (*WhoAmIResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method WhoAmI not implemented")
}
func (UnimplementedNotesServiceServer) WatchNotes(*WatchNotesRequest, NotesService_WatchNotesServer) error {
	return status.Errorf(codes.Unimplemented, "method WatchNotes not implemented")
}
func (UnimplementedNotesServiceServer) mustEmbedUnimplementedNotesServiceServer() {}

// RegisterNotesServiceServer регистрирует реализацию на gRPC сервере
func RegisterNotesServiceServer(s grpc.ServiceRegistrar, srv NotesServiceServer) {
	s.RegisterService(&NotesService_ServiceDesc, srv)
}

func _NotesService_CreateNote_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateNoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NotesServiceServer).CreateNote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: NotesService_CreateNote_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NotesServiceServer).CreateNote(ctx, req.(*CreateNoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NotesService_ListNotes_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListNotesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NotesServiceServer).ListNotes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: NotesService_ListNotes_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NotesServiceServer).ListNotes(ctx, req.(*ListNotesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NotesService_EditNote_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(EditNoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NotesServiceServer).EditNote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: NotesService_EditNote_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NotesServiceServer).EditNote(ctx, req.(*EditNoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NotesService_DeleteNote_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DeleteNoteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NotesServiceServer).DeleteNote(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: NotesService_DeleteNote_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NotesServiceServer).DeleteNote(ctx, req.(*DeleteNoteRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NotesService_WhoAmI_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(WhoAmIRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NotesServiceServer).WhoAmI(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: NotesService_WhoAmI_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(NotesServiceServer).WhoAmI(ctx, req.(*WhoAmIRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _NotesService_WatchNotes_Handler(srv any, stream grpc.ServerStream) error {
	m := new(WatchNotesRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(NotesServiceServer).WatchNotes(m, &grpc.GenericServerStream[WatchNotesRequest, NoteEvent]{ServerStream: stream})
}

// NotesService_ServiceDesc описание сервиса для grpc.ServiceRegistrar
var NotesService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "notes.v1.NotesService",
	HandlerType: (*NotesServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateNote", Handler: _NotesService_CreateNote_Handler},
		{MethodName: "ListNotes", Handler: _NotesService_ListNotes_Handler},
		{MethodName: "EditNote", Handler: _NotesService_EditNote_Handler},
		{MethodName: "DeleteNote", Handler: _NotesService_DeleteNote_Handler},
		{MethodName: "WhoAmI", Handler: _NotesService_WhoAmI_Handler},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchNotes",
			Handler:       _NotesService_WatchNotes_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "pkg/api/notes/v1/notes.go",
}
